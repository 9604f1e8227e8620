package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Providers the swarm knows how to wire API keys for.
var ValidProviders = []string{"anthropic", "gemini", "openai"}

// DefaultModels maps each provider to the model used when an agent entry
// leaves the model field empty.
var DefaultModels = map[string]string{
	"anthropic": "claude-opus-4-20250514",
	"gemini":    "gemini-2.5-pro",
	"openai":    "o3",
}

func defaultAPIKeys() map[string]string {
	return map[string]string{
		"anthropic": "ANTHROPIC_API_KEY",
		"gemini":    "GEMINI_API_KEY",
		"openai":    "OPENAI_API_KEY",
	}
}

// ProjectConfig describes the target project the swarm works on.
type ProjectConfig struct {
	Name        string `yaml:"name"`
	RepoURL     string `yaml:"repo_url"`
	RepoPath    string `yaml:"repo_path"`
	Branch      string `yaml:"branch"`
	TestCommand string `yaml:"test_command"`
	Description string `yaml:"description"`
}

// AgentConfig defines a single agent role and how many replicas of it run.
type AgentConfig struct {
	Role      string `yaml:"role"`
	Prompt    string `yaml:"prompt"`
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	Count     int    `yaml:"count"`
	ExtraArgs string `yaml:"extra_args"`
}

// DockerConfig holds container-runtime settings.
type DockerConfig struct {
	Image string `yaml:"image"`
	// APIKeys maps provider name to the host environment variable holding
	// that provider's API key.
	APIKeys  map[string]string `yaml:"api_keys"`
	ExtraEnv map[string]string `yaml:"extra_env"`
	// Volumes maps host paths to container mount points.
	Volumes      map[string]string `yaml:"volumes"`
	Network      string            `yaml:"network"`
	BuildContext string            `yaml:"build_context"`
}

// Config is the top-level swarm configuration loaded from swarm.yaml.
type Config struct {
	Project     ProjectConfig `yaml:"project"`
	Agents      []AgentConfig `yaml:"agents"`
	Docker      DockerConfig  `yaml:"docker"`
	UpstreamDir string        `yaml:"upstream_dir"`
	LogsDir     string        `yaml:"logs_dir"`
}

// Load reads, defaults, and validates a swarm configuration. Validation is
// eager: every missing or invalid field is reported by name at load time so
// a bad config never reaches launch.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Decoding straight into the struct would zero-value an absent project
	// mapping, so presence is checked on the document node first.
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("config file is empty: %s", path)
	}
	if !hasSection(doc.Content[0], "project") {
		return nil, fmt.Errorf("'project' section is required in %s", path)
	}

	var cfg Config
	if err := doc.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Project.Name == "" {
		c.Project.Name = "my-project"
	}
	if c.Project.Branch == "" {
		c.Project.Branch = "main"
	}
	if c.Docker.Image == "" {
		c.Docker.Image = "codeswarm:latest"
	}
	if c.Docker.APIKeys == nil {
		c.Docker.APIKeys = defaultAPIKeys()
	}
	if c.Docker.BuildContext == "" {
		c.Docker.BuildContext = "."
	}
	if c.UpstreamDir == "" {
		c.UpstreamDir = ".swarm/upstream.git"
	}
	if c.LogsDir == "" {
		c.LogsDir = ".swarm/logs"
	}

	for i := range c.Agents {
		agent := &c.Agents[i]
		if agent.Provider == "" {
			agent.Provider = "anthropic"
		}
		if agent.Model == "" {
			agent.Model = DefaultModels[agent.Provider]
		}
		if agent.Prompt == "" && agent.Role != "" {
			agent.Prompt = fmt.Sprintf("agents/prompts/%s.md", strings.ToUpper(agent.Role))
		}
		if agent.Count == 0 {
			agent.Count = 1
		}
	}
}

func (c *Config) validate() error {
	if len(c.Agents) == 0 {
		return fmt.Errorf("at least one agent must be defined in 'agents'")
	}
	for i, agent := range c.Agents {
		if agent.Role == "" {
			return fmt.Errorf("agents[%d]: 'role' is required", i)
		}
		if !isValidProvider(agent.Provider) {
			return fmt.Errorf(
				"agents[%d] (%s): invalid provider %q, valid providers: %s",
				i, agent.Role, agent.Provider, strings.Join(ValidProviders, ", "))
		}
		if agent.Count < 1 {
			return fmt.Errorf("agents[%d] (%s): 'count' must be at least 1", i, agent.Role)
		}
	}
	return nil
}

// hasSection reports whether the top-level mapping carries a key.
func hasSection(mapping *yaml.Node, key string) bool {
	if mapping.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return true
		}
	}
	return false
}

func isValidProvider(provider string) bool {
	for _, p := range ValidProviders {
		if p == provider {
			return true
		}
	}
	return false
}
