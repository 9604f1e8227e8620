package config

import (
	"fmt"
	"os"
)

// defaultTemplate is the commented starter configuration written by
// `codeswarm init`.
const defaultTemplate = `# codeswarm configuration
#
# Supported providers: anthropic, gemini, openai
# Each agent can specify its own provider and model.
# If model is omitted, a sensible default is used per provider.

project:
  name: my-project
  # Either a remote URL to clone, or a local path to an existing repo:
  repo_url: ""
  repo_path: "."
  branch: main
  # Command the agents run to verify their changes:
  test_command: "make test"
  description: "Describe your project goals here"

agents:
  - role: generalist
    provider: anthropic          # anthropic | gemini | openai
    prompt: agents/prompts/GENERALIST.md
    # model: claude-opus-4-20250514  (default for anthropic)
    count: 3

  - role: code-reviewer
    provider: gemini
    prompt: agents/prompts/CODE-REVIEWER.md
    # model: gemini-2.5-pro          (default for gemini)
    count: 1

  - role: test-writer
    provider: openai
    prompt: agents/prompts/TEST-WRITER.md
    # model: o3                      (default for openai)
    count: 1

docker:
  image: codeswarm:latest
  # Map of provider -> env var name holding the API key:
  api_keys:
    anthropic: ANTHROPIC_API_KEY
    gemini: GEMINI_API_KEY
    openai: OPENAI_API_KEY
  # Extra environment variables passed to every container:
  extra_env: {}
  # Host paths to mount into containers (host_path: container_path):
  volumes: {}
`

// WriteTemplate writes a starter swarm.yaml to dest. It refuses to overwrite
// an existing file.
func WriteTemplate(dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("%s already exists", dest)
	}
	return os.WriteFile(dest, []byte(defaultTemplate), 0644)
}
