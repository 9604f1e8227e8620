package session

import (
	"fmt"
	"os"
	"path/filepath"

	"codeswarm/config"
	"codeswarm/log"
	"codeswarm/session/git"
)

// Swarm launches and manages the agent containers for one configuration.
// It is an explicit handle: Launch returns it populated and all later calls
// operate on it. Cross-invocation control (stopping a swarm started by a
// different process) goes through StopAll, which discovers containers fresh
// from the runtime by name prefix.
type Swarm struct {
	cfg     *config.Config
	workDir string
	runtime Runtime
	gitc    git.Client

	instances []*AgentInstance
}

// NewSwarm builds a swarm handle rooted at workDir.
func NewSwarm(cfg *config.Config, workDir string, runtime Runtime, gitc git.Client) *Swarm {
	return &Swarm{cfg: cfg, workDir: workDir, runtime: runtime, gitc: gitc}
}

// UpstreamPath returns the on-disk location of the shared bare repository.
func (s *Swarm) UpstreamPath() string {
	return filepath.Join(s.workDir, s.cfg.UpstreamDir)
}

// LogsPath returns the host directory that collects agent log artifacts.
func (s *Swarm) LogsPath() string {
	return filepath.Join(s.workDir, s.cfg.LogsDir)
}

// Launch initializes the upstream repository, seeds it from the configured
// project, makes sure the agent image is available, and starts one container
// per configured agent replica. A single agent failing to start is logged
// and skipped; it does not abort the launch. The returned instances are also
// retained on the handle for Status/Stop/Logs.
func (s *Swarm) Launch() ([]*AgentInstance, error) {
	upstream, err := git.InitUpstream(s.gitc, s.UpstreamPath(), s.cfg.Project.RepoURL, s.cfg.Project.Branch)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize upstream repo: %w", err)
	}

	if s.cfg.Project.RepoPath != "" {
		projectPath := filepath.Join(s.workDir, s.cfg.Project.RepoPath)
		if info, err := os.Stat(projectPath); err == nil && info.IsDir() {
			if err := upstream.SeedProject(projectPath); err != nil {
				return nil, fmt.Errorf("failed to seed project files: %w", err)
			}
		}
	}

	if err := s.runtime.EnsureImage(s.cfg.Docker.Image, filepath.Join(s.workDir, s.cfg.Docker.BuildContext)); err != nil {
		return nil, err
	}

	for _, agentCfg := range s.cfg.Agents {
		for i := 0; i < agentCfg.Count; i++ {
			id := agentID(agentCfg.Role, i)

			opts := RunOptions{
				Name:     ContainerPrefix + id,
				Hostname: id,
				Image:    s.cfg.Docker.Image,
				Network:  s.cfg.Docker.Network,
				Env:      s.buildEnv(agentCfg, id),
				Volumes:  s.buildVolumes(agentCfg),
			}

			containerID, err := s.runtime.Run(opts)
			if err != nil {
				log.ErrorLog.Printf("failed to start agent %s: %v", id, err)
				continue
			}

			s.instances = append(s.instances, &AgentInstance{
				ContainerID: containerID,
				AgentID:     id,
				Role:        agentCfg.Role,
				Provider:    agentCfg.Provider,
				Model:       agentCfg.Model,
				PromptFile:  agentCfg.Prompt,
			})
			log.InfoLog.Printf("started agent %s in container %s", id, containerID)
		}
	}

	return s.instances, nil
}

// buildEnv assembles the environment an agent container is configured with:
// provider API keys forwarded from the host, the agent's identity and model,
// and the coordination parameters (branch, test command).
func (s *Swarm) buildEnv(agentCfg config.AgentConfig, id string) []string {
	var env []string

	// Pass all provider API keys so mixed swarms work.
	for _, envVar := range s.cfg.Docker.APIKeys {
		if key := os.Getenv(envVar); key != "" {
			env = append(env, fmt.Sprintf("%s=%s", envVar, key))
		}
	}

	env = append(env,
		"AGENT_PROVIDER="+agentCfg.Provider,
		"AGENT_MODEL="+agentCfg.Model,
		"AGENT_ROLE="+agentCfg.Role,
	)

	for key, val := range s.cfg.Docker.ExtraEnv {
		env = append(env, fmt.Sprintf("%s=%s", key, val))
	}

	if agentCfg.Prompt != "" {
		env = append(env, "AGENT_PROMPT_FILE=/prompts/"+filepath.Base(agentCfg.Prompt))
	}

	env = append(env,
		"AGENT_ID="+id,
		"BRANCH="+s.cfg.Project.Branch,
		"TEST_COMMAND="+s.cfg.Project.TestCommand,
	)
	return env
}

// buildVolumes assembles the container mounts: the upstream bare repo, the
// log directory, the agent's prompt directory (read-only), and any
// user-configured volumes.
func (s *Swarm) buildVolumes(agentCfg config.AgentConfig) []string {
	volumes := []string{
		s.UpstreamPath() + ":/upstream",
	}

	logsDir := s.LogsPath()
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		log.WarningLog.Printf("failed to create logs directory %s: %v", logsDir, err)
	}
	volumes = append(volumes, logsDir+":/logs")

	if agentCfg.Prompt != "" {
		promptDir := filepath.Dir(filepath.Join(s.workDir, agentCfg.Prompt))
		if _, err := os.Stat(promptDir); err == nil {
			volumes = append(volumes, promptDir+":/prompts:ro")
		}
	}

	for host, container := range s.cfg.Docker.Volumes {
		volumes = append(volumes, host+":"+container)
	}
	return volumes
}

// Status reports the runtime state of every launched instance.
func (s *Swarm) Status() []InstanceStatus {
	statuses := make([]InstanceStatus, 0, len(s.instances))
	for _, inst := range s.instances {
		state, err := s.runtime.Inspect(inst.ContainerID)
		if err != nil {
			state = "unknown"
		}
		statuses = append(statuses, InstanceStatus{
			AgentID:     inst.AgentID,
			ContainerID: inst.ContainerID,
			Role:        inst.Role,
			Model:       inst.Model,
			State:       state,
		})
	}
	return statuses
}

// RunningAgents returns the agent ids of instances currently running.
func (s *Swarm) RunningAgents() []string {
	var running []string
	for _, status := range s.Status() {
		if status.State == "running" {
			running = append(running, status.AgentID)
		}
	}
	return running
}

// Logs returns the last tail lines of output for the named agent.
func (s *Swarm) Logs(agentIdent string, tail int) (string, error) {
	for _, inst := range s.instances {
		if inst.AgentID == agentIdent {
			return s.runtime.Logs(inst.ContainerID, tail)
		}
	}
	return "", fmt.Errorf("agent %q not found", agentIdent)
}

// Stop stops and removes every instance launched by this handle.
func (s *Swarm) Stop() {
	for _, inst := range s.instances {
		log.InfoLog.Printf("stopping agent %s (%s)", inst.AgentID, inst.ContainerID)
		if err := s.runtime.Stop(inst.ContainerID); err != nil {
			log.WarningLog.Printf("failed to stop %s: %v", inst.AgentID, err)
		}
		if err := s.runtime.Remove(inst.ContainerID); err != nil {
			log.WarningLog.Printf("failed to remove %s: %v", inst.AgentID, err)
		}
	}
	s.instances = nil
}

// StopAll stops and removes every swarm container the runtime knows about,
// discovered fresh by name prefix. This is the cross-invocation stop path:
// it needs no handle from the process that launched the swarm.
func StopAll(runtime Runtime) (int, error) {
	containers, err := runtime.List(ContainerPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list swarm containers: %w", err)
	}

	stopped := 0
	for _, c := range containers {
		log.InfoLog.Printf("stopping container %s (%s)", c.Name, c.ID)
		if err := runtime.Stop(c.ID); err != nil {
			log.WarningLog.Printf("failed to stop %s: %v", c.Name, err)
			continue
		}
		if err := runtime.Remove(c.ID); err != nil {
			log.WarningLog.Printf("failed to remove %s: %v", c.Name, err)
		}
		stopped++
	}
	return stopped, nil
}
