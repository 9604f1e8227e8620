package git

import (
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// SanitizeTaskName transforms a human-readable task name into a filename-safe
// lock key. Spaces and path separators become underscores. The mapping is
// deterministic and part of the repository layout contract: two names that
// sanitize to the same key claim the same lock.
func SanitizeTaskName(taskName string) string {
	key := strings.ReplaceAll(taskName, " ", "_")
	key = strings.ReplaceAll(key, "/", "_")
	key = strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return key
}

// IsBareRepo reports whether path holds an initialized bare repository.
func IsBareRepo(path string) bool {
	info, err := os.Stat(filepath.Join(path, "HEAD"))
	return err == nil && !info.IsDir()
}

// IsWorkspaceClone reports whether path holds a valid non-bare clone.
func IsWorkspaceClone(path string) bool {
	if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
		return false
	}
	_, err := gogit.PlainOpen(path)
	return err == nil
}
