package monitoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1)

	hashStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	agentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// defaultWidth is used until the terminal reports its size.
const defaultWidth = 80

// Render formats a snapshot as the line-oriented dashboard. It is used both
// for the one-shot status command and each frame of the live dashboard.
func Render(snap Snapshot, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("CODESWARM DASHBOARD - %s", snap.Timestamp.Format(time.RFC1123))))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render(fmt.Sprintf("Active Tasks (%d)", len(snap.ActiveTasks))))
	b.WriteString("\n")
	if len(snap.ActiveTasks) == 0 {
		b.WriteString(dimStyle.Render("  (none)") + "\n")
	}
	for _, task := range snap.ActiveTasks {
		desc := task.Description
		if desc == "" {
			desc = task.Key
		}
		line := fmt.Sprintf("  %s  <- agent: %s", desc, agentStyle.Render(task.Agent))
		b.WriteString(truncate.StringWithTail(line, uint(width), "…") + "\n")
	}

	b.WriteString(sectionStyle.Render(fmt.Sprintf("Recent Commits (%d)", len(snap.RecentCommits))))
	b.WriteString("\n")
	if len(snap.RecentCommits) == 0 {
		b.WriteString(dimStyle.Render("  (none)") + "\n")
	}
	for _, c := range snap.RecentCommits {
		line := fmt.Sprintf("  %s  %-16s %s", hashStyle.Render(c.Hash), c.When, c.Message)
		b.WriteString(truncate.StringWithTail(line, uint(width), "…") + "\n")
	}

	b.WriteString(sectionStyle.Render(fmt.Sprintf("Agent Logs (%d files)", len(snap.LogFiles))))
	b.WriteString("\n")
	if len(snap.LogFiles) == 0 {
		b.WriteString(dimStyle.Render("  (none)") + "\n")
	}
	for i, name := range snap.LogFiles {
		if i >= 5 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  … and %d more", len(snap.LogFiles)-i)) + "\n")
			break
		}
		b.WriteString("  " + name + "\n")
	}

	return b.String()
}

type tickMsg time.Time

// Model is the live dashboard: a snapshot re-taken on a timer until the user
// quits.
type Model struct {
	monitor  *Monitor
	interval time.Duration
	spinner  spinner.Model
	snap     Snapshot
	width    int
}

// NewModel builds the live dashboard model refreshing every interval.
func NewModel(monitor *Monitor, interval time.Duration) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		monitor:  monitor,
		interval: interval,
		spinner:  s,
		snap:     monitor.TakeSnapshot(),
		width:    defaultWidth,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		m.snap = m.monitor.TakeSnapshot()
		return m, m.tick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	footer := dimStyle.Render(fmt.Sprintf("%s refreshing every %s - press q to quit", m.spinner.View(), m.interval))
	return Render(m.snap, m.width) + "\n" + footer + "\n"
}

// RunDashboard starts the live dashboard and blocks until the user quits.
func RunDashboard(monitor *Monitor, interval time.Duration) error {
	_, err := tea.NewProgram(NewModel(monitor, interval), tea.WithAltScreen()).Run()
	return err
}
