package git

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupGitEnv pins commit identity through the environment so every commit
// made by the library under test works without global git configuration.
func setupGitEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GIT_AUTHOR_NAME", "Test Agent")
	t.Setenv("GIT_AUTHOR_EMAIL", "agent@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test Agent")
	t.Setenv("GIT_COMMITTER_EMAIL", "agent@example.com")
}

// setupUpstream bootstraps a scaffolded bare upstream in a temp directory.
func setupUpstream(t *testing.T) *Upstream {
	t.Helper()
	setupGitEnv(t)

	upstream, err := InitUpstream(NewClient(), filepath.Join(t.TempDir(), "upstream.git"), "", "main")
	require.NoError(t, err)
	return upstream
}

// openTestWorkspace clones the upstream for the given agent.
func openTestWorkspace(t *testing.T, upstream *Upstream, agentID string) *Workspace {
	t.Helper()

	ws, err := OpenWorkspace(NewClient(), upstream.Path, filepath.Join(t.TempDir(), agentID), agentID, upstream.Branch)
	require.NoError(t, err)
	return ws
}

// commitCount returns the number of commits reachable from HEAD in dir.
func commitCount(t *testing.T, dir string) int {
	t.Helper()

	output, err := NewClient().Run(dir, "rev-list", "--count", "HEAD")
	require.NoError(t, err)
	count, err := strconv.Atoi(strings.TrimSpace(output))
	require.NoError(t, err)
	return count
}

// writeWorkspaceFile writes a file inside the workspace tree.
func writeWorkspaceFile(t *testing.T, ws *Workspace, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(ws.Path, name), []byte(content), 0644))
}
