package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveTasks(t *testing.T) {
	writeLock := func(t *testing.T, dir, key, content string) {
		t.Helper()
		tasksDir := filepath.Join(dir, TasksDir)
		require.NoError(t, os.MkdirAll(tasksDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(tasksDir, key+lockSuffix), []byte(content), 0644))
	}

	t.Run("parses lock records sorted by key", func(t *testing.T) {
		dir := t.TempDir()
		writeLock(t, dir, "write_tests", "agent: test-writer-0\ntask: write tests\n")
		writeLock(t, dir, "fix_bug", "agent: generalist-1\ntask: fix bug\n")

		tasks := ActiveTasks(dir)
		require.Len(t, tasks, 2)
		assert.Equal(t, TaskLock{Key: "fix_bug", Agent: "generalist-1", Description: "fix bug"}, tasks[0])
		assert.Equal(t, TaskLock{Key: "write_tests", Agent: "test-writer-0", Description: "write tests"}, tasks[1])
	})

	t.Run("ignores non-lock entries", func(t *testing.T) {
		dir := t.TempDir()
		writeLock(t, dir, "fix_bug", "agent: generalist-0\ntask: fix bug\n")
		require.NoError(t, os.WriteFile(filepath.Join(dir, TasksDir, ".gitkeep"), nil, 0644))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, TasksDir, "subdir.lock"), 0755))

		tasks := ActiveTasks(dir)
		require.Len(t, tasks, 1)
		assert.Equal(t, "fix_bug", tasks[0].Key)
	})

	t.Run("tolerates malformed records", func(t *testing.T) {
		dir := t.TempDir()
		writeLock(t, dir, "broken", "no separator here")

		tasks := ActiveTasks(dir)
		require.Len(t, tasks, 1)
		assert.Equal(t, "broken", tasks[0].Key)
		assert.Empty(t, tasks[0].Agent)
	})

	t.Run("missing directory yields empty result", func(t *testing.T) {
		assert.Empty(t, ActiveTasks(t.TempDir()))
		assert.Empty(t, ActiveTasks(filepath.Join(t.TempDir(), "does-not-exist")))
	})
}
