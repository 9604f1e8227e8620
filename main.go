package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeswarm/config"
	"codeswarm/log"
	"codeswarm/monitoring"
	"codeswarm/session"
	"codeswarm/session/git"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	configFlag   string
	outputFlag   string
	dryRunFlag   bool
	tailFlag     int
	intervalFlag int

	rootCmd = &cobra.Command{
		Use:     "codeswarm",
		Short:   "Run parallel AI agents against any codebase",
		Version: version,
	}

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a starter swarm.yaml in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteTemplate(outputFlag); err != nil {
				return err
			}
			fmt.Printf("Created %s\n", outputFlag)
			fmt.Println("Edit it, then run: codeswarm launch")
			return nil
		},
	}

	launchCmd = &cobra.Command{
		Use:   "launch",
		Short: "Start the agent swarm (upstream repo + containers)",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize()
			defer log.Close()

			cfg, err := config.Load(configFlag)
			if err != nil {
				return err
			}

			if dryRunFlag {
				printDryRun(cfg)
				return nil
			}

			workDir, err := filepath.Abs(".")
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}

			swarm := session.NewSwarm(cfg, workDir, session.NewDockerRuntime(), git.NewClient())
			instances, err := swarm.Launch()
			if err != nil {
				return err
			}
			fmt.Printf("Swarm launched with %d agent(s)\n", len(instances))
			for _, inst := range instances {
				fmt.Printf("  %s  model=%s  container=%s\n", inst.AgentID, inst.Model, inst.ContainerID)
			}
			return nil
		},
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show locked tasks, recent commits, and agent logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize()
			defer log.Close()

			monitor, err := newMonitor()
			if err != nil {
				return err
			}
			fmt.Print(monitoring.Render(monitor.TakeSnapshot(), 0))
			return nil
		},
	}

	logsCmd = &cobra.Command{
		Use:   "logs [agent-id]",
		Short: "View logs for a specific agent, or list all log files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFlag)
			if err != nil {
				return err
			}

			logsDir := cfg.LogsDir
			entries, err := os.ReadDir(logsDir)
			if err != nil {
				fmt.Println("No log files found yet.")
				return nil
			}

			if len(args) == 0 {
				fmt.Println("Available log files:")
				for _, entry := range entries {
					if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
						continue
					}
					info, err := entry.Info()
					if err != nil {
						continue
					}
					fmt.Printf("  %s  (%d bytes)\n", entry.Name(), info.Size())
				}
				return nil
			}

			return printAgentLog(logsDir, args[0], tailFlag)
		},
	}

	stopCmd = &cobra.Command{
		Use:   "stop",
		Short: "Stop all running swarm agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize()
			defer log.Close()

			stopped, err := session.StopAll(session.NewDockerRuntime())
			if err != nil {
				return err
			}
			if stopped == 0 {
				fmt.Println("No swarm containers found.")
				return nil
			}
			fmt.Printf("Stopped %d container(s).\n", stopped)
			return nil
		},
	}

	dashboardCmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Live-refreshing dashboard of swarm activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize()
			defer log.Close()

			monitor, err := newMonitor()
			if err != nil {
				return err
			}
			return monitoring.RunDashboard(monitor, time.Duration(intervalFlag)*time.Second)
		},
	}
)

func newMonitor() (*monitoring.Monitor, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	workDir, err := filepath.Abs(".")
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return monitoring.NewMonitor(cfg, workDir, git.NewClient()), nil
}

func printDryRun(cfg *config.Config) {
	fmt.Println("Dry-run mode — would launch:")
	total := 0
	for _, agent := range cfg.Agents {
		for i := 0; i < agent.Count; i++ {
			fmt.Printf("  %s-%d  provider=%s  model=%s  prompt=%s\n",
				agent.Role, i, agent.Provider, agent.Model, agent.Prompt)
			total++
		}
	}
	fmt.Printf("\n  Total: %d agent(s)\n", total)
	fmt.Printf("  Image: %s\n", cfg.Docker.Image)
	fmt.Printf("  Upstream: %s\n", cfg.UpstreamDir)
}

func printAgentLog(logsDir, agentIdent string, tail int) error {
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), agentIdent) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(logsDir, entry.Name()))
		if err != nil {
			return err
		}
		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		if len(lines) > tail {
			lines = lines[len(lines)-tail:]
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	}
	fmt.Printf("No log files matching %q\n", agentIdent)
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "swarm.yaml", "path to swarm config file")
	initCmd.Flags().StringVarP(&outputFlag, "output", "o", "swarm.yaml", "where to write the template config")
	launchCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "print what would be done without starting containers")
	logsCmd.Flags().IntVarP(&tailFlag, "tail", "n", 50, "number of lines to show")
	dashboardCmd.Flags().IntVarP(&intervalFlag, "interval", "i", 10, "refresh interval in seconds")

	rootCmd.AddCommand(initCmd, launchCmd, statusCmd, logsCmd, stopCmd, dashboardCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
