package monitoring

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"codeswarm/config"
	"codeswarm/log"
	"codeswarm/session/git"
)

// Monitor answers the three read-only queries the dashboard needs: which
// tasks are locked, what landed upstream recently, and which agent log
// artifacts exist. Every query is best-effort and degrades to an empty
// result on failure.
type Monitor struct {
	cfg     *config.Config
	workDir string
	gitc    git.Client
}

// Snapshot is one full dashboard refresh.
type Snapshot struct {
	Timestamp     time.Time
	ActiveTasks   []git.TaskLock
	RecentCommits []git.Commit
	LogFiles      []string
}

// NewMonitor builds a monitor rooted at workDir.
func NewMonitor(cfg *config.Config, workDir string, gitc git.Client) *Monitor {
	return &Monitor{cfg: cfg, workDir: workDir, gitc: gitc}
}

func (m *Monitor) upstreamPath() string {
	return filepath.Join(m.workDir, m.cfg.UpstreamDir)
}

// cloneDir is the monitor's own read-only clone. Lock records live inside
// the repository, so reading them requires a working tree; the monitor keeps
// one of its own rather than touching any agent's workspace.
func (m *Monitor) cloneDir() string {
	return filepath.Join(m.workDir, git.ControlDir, "_monitor")
}

// ActiveTasks refreshes the monitor clone and enumerates the current lock
// records.
func (m *Monitor) ActiveTasks() []git.TaskLock {
	clone := m.cloneDir()
	if git.IsWorkspaceClone(clone) {
		if _, err := m.gitc.Run(clone, "pull", "--rebase"); err != nil {
			log.DebugLog.Printf("monitor: pull failed, using stale snapshot: %v", err)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(clone), 0755); err != nil {
			return nil
		}
		if _, err := m.gitc.Run("", "clone", m.upstreamPath(), clone); err != nil {
			log.DebugLog.Printf("monitor: clone failed: %v", err)
			return nil
		}
	}
	return git.ActiveTasks(clone)
}

// RecentCommits returns up to count recent upstream commits, newest first.
func (m *Monitor) RecentCommits(count int) []git.Commit {
	return git.RecentCommits(m.upstreamPath(), count)
}

// LogFiles returns the names of agent log artifacts, newest first.
func (m *Monitor) LogFiles() []string {
	logsDir := filepath.Join(m.workDir, m.cfg.LogsDir)
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		return nil
	}

	type logFile struct {
		name    string
		modTime time.Time
	}
	var files []logFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{name: entry.Name(), modTime: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].modTime.After(files[j].modTime) })

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
	}
	return names
}

// TakeSnapshot gathers a full dashboard refresh.
func (m *Monitor) TakeSnapshot() Snapshot {
	return Snapshot{
		Timestamp:     time.Now(),
		ActiveTasks:   m.ActiveTasks(),
		RecentCommits: m.RecentCommits(10),
		LogFiles:      m.LogFiles(),
	}
}
