package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTaskName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name", "refactor", "refactor"},
		{"spaces become underscores", "fix the bug", "fix_the_bug"},
		{"slashes become underscores", "api/v2 cleanup", "api_v2_cleanup"},
		{"deterministic collisions", "fix the/bug", "fix_the_bug"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeTaskName(tt.in))
		})
	}
}

func TestIsBareRepo(t *testing.T) {
	upstream := setupUpstream(t)
	assert.True(t, IsBareRepo(upstream.Path))
	assert.False(t, IsBareRepo(t.TempDir()))
}

func TestIsWorkspaceClone(t *testing.T) {
	upstream := setupUpstream(t)
	ws := openTestWorkspace(t, upstream, "generalist-0")

	assert.True(t, IsWorkspaceClone(ws.Path))
	assert.False(t, IsWorkspaceClone(t.TempDir()))
	// A bare repo is not a workspace.
	assert.False(t, IsWorkspaceClone(upstream.Path))
}
