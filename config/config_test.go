package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swarm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
project:
  name: demo
  repo_path: "."
  branch: develop
  test_command: "go test ./..."
agents:
  - role: generalist
    provider: anthropic
    count: 3
  - role: reviewer
    provider: gemini
    model: gemini-custom
docker:
  image: demo:latest
  network: swarm-net
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "demo", cfg.Project.Name)
		assert.Equal(t, "develop", cfg.Project.Branch)
		require.Len(t, cfg.Agents, 2)
		assert.Equal(t, 3, cfg.Agents[0].Count)
		assert.Equal(t, "gemini-custom", cfg.Agents[1].Model)
		assert.Equal(t, "demo:latest", cfg.Docker.Image)
		assert.Equal(t, "swarm-net", cfg.Docker.Network)
	})

	t.Run("defaults are applied", func(t *testing.T) {
		path := writeConfig(t, `
project:
  name: demo
agents:
  - role: generalist
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		agent := cfg.Agents[0]
		assert.Equal(t, "anthropic", agent.Provider)
		assert.Equal(t, DefaultModels["anthropic"], agent.Model)
		assert.Equal(t, "agents/prompts/GENERALIST.md", agent.Prompt)
		assert.Equal(t, 1, agent.Count)

		assert.Equal(t, "main", cfg.Project.Branch)
		assert.Equal(t, "codeswarm:latest", cfg.Docker.Image)
		assert.Equal(t, "ANTHROPIC_API_KEY", cfg.Docker.APIKeys["anthropic"])
		assert.Equal(t, ".swarm/upstream.git", cfg.UpstreamDir)
		assert.Equal(t, ".swarm/logs", cfg.LogsDir)
	})

	t.Run("per-provider model defaults", func(t *testing.T) {
		path := writeConfig(t, `
project:
  name: demo
agents:
  - role: a
    provider: anthropic
  - role: b
    provider: gemini
  - role: c
    provider: openai
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		for _, agent := range cfg.Agents {
			assert.Equal(t, DefaultModels[agent.Provider], agent.Model)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config file not found")
	})

	t.Run("missing project section", func(t *testing.T) {
		path := writeConfig(t, `
agents:
  - role: generalist
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "'project' section is required")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeConfig(t, "")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("no agents", func(t *testing.T) {
		path := writeConfig(t, `
project:
  name: demo
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one agent")
	})

	t.Run("invalid provider names the field", func(t *testing.T) {
		path := writeConfig(t, `
project:
  name: demo
agents:
  - role: generalist
    provider: cohere
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "agents[0]")
		assert.Contains(t, err.Error(), "cohere")
		assert.Contains(t, err.Error(), "anthropic")
	})

	t.Run("missing role names the index", func(t *testing.T) {
		path := writeConfig(t, `
project:
  name: demo
agents:
  - provider: anthropic
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "agents[0]: 'role' is required")
	})

	t.Run("negative count is rejected", func(t *testing.T) {
		path := writeConfig(t, `
project:
  name: demo
agents:
  - role: generalist
    count: -2
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "'count' must be at least 1")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "project: [unclosed")
		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestWriteTemplate(t *testing.T) {
	t.Run("template round-trips through Load", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "swarm.yaml")
		require.NoError(t, WriteTemplate(dest))

		cfg, err := Load(dest)
		require.NoError(t, err)
		assert.Equal(t, "my-project", cfg.Project.Name)
		assert.Len(t, cfg.Agents, 3)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "swarm.yaml")
		require.NoError(t, WriteTemplate(dest))

		err := WriteTemplate(dest)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})
}
