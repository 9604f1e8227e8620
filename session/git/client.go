package git

import (
	"fmt"
	"os/exec"
)

// Client runs version-control commands rooted at a directory. The coordination
// logic is written against this interface so tests can substitute a fake engine;
// the production implementation shells out to the git binary.
type Client interface {
	// Run executes a git command inside dir and returns its combined output.
	// An empty dir runs the command from the process working directory, which
	// is needed for clone/init targets that do not exist yet.
	Run(dir string, args ...string) (string, error)
}

// CLIClient is the production Client backed by the git binary on PATH.
type CLIClient struct{}

// NewClient returns the default git CLI client.
func NewClient() Client {
	return CLIClient{}
}

func (CLIClient) Run(dir string, args ...string) (string, error) {
	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	cmd := exec.Command("git", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("git command failed: %s (%w)", output, err)
	}
	return string(output), nil
}
