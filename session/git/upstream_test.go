package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitUpstream(t *testing.T) {
	t.Run("creates scaffolded bare repo", func(t *testing.T) {
		upstream := setupUpstream(t)

		assert.True(t, IsBareRepo(upstream.Path))

		// A fresh clone must contain the full scaffold.
		ws := openTestWorkspace(t, upstream, "checker-0")
		assert.FileExists(t, filepath.Join(ws.Path, TasksDir, ".gitkeep"))
		assert.FileExists(t, filepath.Join(ws.Path, AgentLogsDir, ".gitkeep"))

		progress, err := os.ReadFile(filepath.Join(ws.Path, ProgressFile))
		require.NoError(t, err)
		assert.NotEmpty(t, progress)
	})

	t.Run("is idempotent", func(t *testing.T) {
		upstream := setupUpstream(t)

		again, err := InitUpstream(NewClient(), upstream.Path, "", "main")
		require.NoError(t, err)
		assert.Equal(t, upstream.Path, again.Path)

		ws := openTestWorkspace(t, upstream, "checker-0")
		assert.Equal(t, 1, commitCount(t, ws.Path))
	})

	t.Run("clones from source when given", func(t *testing.T) {
		setupGitEnv(t)
		client := NewClient()

		// Build a source repo with one commit.
		source := filepath.Join(t.TempDir(), "source")
		require.NoError(t, os.MkdirAll(source, 0755))
		_, err := client.Run("", "init", "-b", "main", source)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(source, "README.md"), []byte("# Source"), 0644))
		_, err = client.Run(source, "add", ".")
		require.NoError(t, err)
		_, err = client.Run(source, "commit", "-m", "Initial commit")
		require.NoError(t, err)

		upstream, err := InitUpstream(client, filepath.Join(t.TempDir(), "upstream.git"), source, "main")
		require.NoError(t, err)
		assert.True(t, IsBareRepo(upstream.Path))

		ws := openTestWorkspace(t, upstream, "checker-0")
		assert.FileExists(t, filepath.Join(ws.Path, "README.md"))
	})
}

func TestSeedProject(t *testing.T) {
	setupProject := func(t *testing.T) string {
		t.Helper()
		project := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(project, "main.go"), []byte("package main\n"), 0644))
		require.NoError(t, os.MkdirAll(filepath.Join(project, "docs"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(project, "docs", "README.md"), []byte("# Docs"), 0644))
		// Metadata and control-plane directories must never be seeded.
		require.NoError(t, os.MkdirAll(filepath.Join(project, ".git"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(project, ".git", "config"), []byte("[core]"), 0644))
		require.NoError(t, os.MkdirAll(filepath.Join(project, ControlDir), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(project, ControlDir, "state"), []byte("x"), 0644))
		return project
	}

	t.Run("copies project files and skips control dirs", func(t *testing.T) {
		upstream := setupUpstream(t)
		project := setupProject(t)

		require.NoError(t, upstream.SeedProject(project))

		ws := openTestWorkspace(t, upstream, "checker-0")
		assert.FileExists(t, filepath.Join(ws.Path, "main.go"))
		assert.FileExists(t, filepath.Join(ws.Path, "docs", "README.md"))
		assert.NoDirExists(t, filepath.Join(ws.Path, ControlDir))
		assert.NoFileExists(t, filepath.Join(ws.Path, ControlDir, "state"))
	})

	t.Run("re-seeding unchanged content is a no-op", func(t *testing.T) {
		upstream := setupUpstream(t)
		project := setupProject(t)

		require.NoError(t, upstream.SeedProject(project))
		require.NoError(t, upstream.SeedProject(project))

		ws := openTestWorkspace(t, upstream, "checker-0")
		// Scaffold commit plus exactly one seed commit.
		assert.Equal(t, 2, commitCount(t, ws.Path))
	})

	t.Run("changed content produces a new commit", func(t *testing.T) {
		upstream := setupUpstream(t)
		project := setupProject(t)

		require.NoError(t, upstream.SeedProject(project))
		require.NoError(t, os.WriteFile(filepath.Join(project, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0644))
		require.NoError(t, upstream.SeedProject(project))

		ws := openTestWorkspace(t, upstream, "checker-0")
		assert.Equal(t, 3, commitCount(t, ws.Path))
	})
}
