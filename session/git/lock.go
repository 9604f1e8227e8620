package git

import (
	"fmt"
	"os"
	"path/filepath"

	"codeswarm/log"
)

// lockSuffix is the extension of every lock record under the tasks directory.
const lockSuffix = ".lock"

// lockRecordPath returns where the lock record for taskName lives in this
// workspace.
func (w *Workspace) lockRecordPath(taskName string) string {
	return filepath.Join(w.Path, TasksDir, SanitizeTaskName(taskName)+lockSuffix)
}

// AcquireTask claims taskName for this workspace's agent by committing a lock
// record and pushing it upstream. The remote's atomic branch update is the
// arbiter: when two agents race for the same key, exactly one push lands and
// the loser's push is rejected, at which point the loser rolls its workspace
// back to the upstream tip and reports false.
//
// A false return is an expected scheduling outcome, not an error. The call is
// single-shot: it never re-attempts a rejected claim, leaving retry policy to
// the caller.
func (w *Workspace) AcquireTask(taskName string) bool {
	tasksDir := filepath.Join(w.Path, TasksDir)
	if err := os.MkdirAll(tasksDir, 0755); err != nil {
		log.ErrorLog.Printf("acquire: failed to create %s: %v", tasksDir, err)
		return false
	}

	lockPath := w.lockRecordPath(taskName)
	if _, err := os.Stat(lockPath); err == nil {
		// Already locked in this workspace snapshot. Cheap local pre-check
		// only; the push below is the authority.
		return false
	}

	record := fmt.Sprintf("agent: %s\ntask: %s\n", w.AgentID, taskName)
	if err := os.WriteFile(lockPath, []byte(record), 0644); err != nil {
		log.ErrorLog.Printf("acquire: failed to write lock record: %v", err)
		return false
	}

	if _, err := w.client.Run(w.Path, "add", lockPath); err != nil {
		log.ErrorLog.Printf("acquire: failed to stage lock record: %v", err)
		return false
	}
	msg := fmt.Sprintf("Lock task: %s (agent %s)", taskName, w.AgentID)
	if _, err := w.client.Run(w.Path, "commit", "-m", msg); err != nil {
		log.ErrorLog.Printf("acquire: failed to commit lock record: %v", err)
		return false
	}

	// Pull first to shrink the stale-base window, then let the push decide.
	// A conflicted pull leaves a rebase in progress; abort it so the branch
	// ref is intact and the push verdict below is unambiguous.
	if _, err := w.client.Run(w.Path, "pull", "--rebase", "origin", w.Branch); err != nil {
		log.DebugLog.Printf("acquire: pre-push pull for %q: %v", taskName, err)
		if _, abortErr := w.client.Run(w.Path, "rebase", "--abort"); abortErr != nil {
			log.DebugLog.Printf("acquire: rebase abort: %v", abortErr)
		}
	}
	if _, err := w.client.Run(w.Path, "push", "origin", w.Branch); err != nil {
		// Another agent's claim landed first. Void ours entirely.
		if rmErr := os.Remove(lockPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.ErrorLog.Printf("acquire: failed to remove voided lock record: %v", rmErr)
		}
		if _, resetErr := w.client.Run(w.Path, "reset", "--hard", "origin/"+w.Branch); resetErr != nil {
			log.ErrorLog.Printf("acquire: failed to reset after lost race: %v", resetErr)
		}
		log.InfoLog.Printf("acquire: agent %s lost the race for %q", w.AgentID, taskName)
		return false
	}
	return true
}

// ReleaseTask removes the lock record for taskName and publishes the removal.
// Releasing a task that is not locked is a no-op.
func (w *Workspace) ReleaseTask(taskName string) {
	lockPath := w.lockRecordPath(taskName)
	if _, err := os.Stat(lockPath); err != nil {
		return
	}
	if err := os.Remove(lockPath); err != nil {
		log.ErrorLog.Printf("release: failed to remove lock record: %v", err)
		return
	}
	if !w.Publish(fmt.Sprintf("Unlock task: %s", taskName)) {
		log.WarningLog.Printf("release: failed to publish unlock of %q", taskName)
	}
}
