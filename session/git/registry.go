package git

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TaskLock is a claim on a task, parsed from its lock record.
type TaskLock struct {
	// Key is the sanitized filename-safe identifier (without extension).
	Key string
	// Agent is the identity of the claiming agent.
	Agent string
	// Description is the original human-readable task name.
	Description string
}

// ActiveTasks enumerates the lock records present in a repository snapshot at
// dir. It is a pure local read: it reflects only what that snapshot has synced
// so far and never touches the network. A missing or unreadable tasks
// directory yields an empty result.
func ActiveTasks(dir string) []TaskLock {
	tasksDir := filepath.Join(dir, TasksDir)
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		return nil
	}

	var tasks []TaskLock
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), lockSuffix) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tasksDir, entry.Name()))
		if err != nil {
			continue
		}
		lock := TaskLock{Key: strings.TrimSuffix(entry.Name(), lockSuffix)}
		for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
			field, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			switch strings.TrimSpace(field) {
			case "agent":
				lock.Agent = strings.TrimSpace(value)
			case "task":
				lock.Description = strings.TrimSpace(value)
			}
		}
		tasks = append(tasks, lock)
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Key < tasks[j].Key })
	return tasks
}
