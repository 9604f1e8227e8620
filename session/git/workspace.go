package git

import (
	"fmt"
	"os"
	"strings"

	"codeswarm/log"
)

// oursMarkerMessage is the commit message recorded whenever a merge conflict
// is auto-resolved by keeping the local version of every conflicting file.
// The marker makes the lossy resolution auditable in upstream history.
const oursMarkerMessage = "Auto-merge: accept ours"

// Workspace is a disposable local clone owned by exactly one agent. The
// workspace itself carries no durable state: the lock records and task files
// pushed upstream are the only durable claims, so a workspace can always be
// thrown away and re-cloned.
type Workspace struct {
	// Path to the clone on disk.
	Path string
	// AgentID identifies the owning agent. A workspace directory must never
	// be reused across agent identities.
	AgentID string
	// Branch the agent coordinates on.
	Branch string

	client Client
}

// OpenWorkspace clones the upstream repository into path, or refreshes the
// clone already there. A refresh discards any uncommitted local state by
// hard-resetting to the remote tip.
func OpenWorkspace(client Client, upstreamPath, path, agentID, branch string) (*Workspace, error) {
	ws := &Workspace{Path: path, AgentID: agentID, Branch: branch, client: client}

	if IsWorkspaceClone(path) {
		if _, err := client.Run(path, "fetch", "origin"); err != nil {
			return nil, fmt.Errorf("failed to fetch upstream: %w", err)
		}
		if _, err := client.Run(path, "reset", "--hard", "origin/"+branch); err != nil {
			return nil, fmt.Errorf("failed to reset workspace to origin/%s: %w", branch, err)
		}
		return ws, nil
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}
	if _, err := client.Run("", "clone", upstreamPath, path); err != nil {
		return nil, fmt.Errorf("failed to clone upstream: %w", err)
	}
	if _, err := client.Run(path, "checkout", branch); err != nil {
		// Fresh clones of a single-branch upstream are already on it.
		log.DebugLog.Printf("checkout %s in %s: %v", branch, path, err)
	}
	return ws, nil
}

// Publish stages everything in the workspace, commits it with message, and
// pushes the branch upstream, integrating any changes other agents landed
// first. The return value is whether the push succeeded; contention and
// transient failures are a false, not an error, and re-invoking Publish is
// always safe because a clean tree returns true without a second commit.
//
// Conflicting upstream history is handled in escalating steps: first rebase,
// then merge, then the deterministic ours-wins resolution that discards the
// remote version of every conflicting file. That last step loses remote work;
// it is always recorded under the marker commit message so it can be audited
// later.
func (w *Workspace) Publish(message string) bool {
	if _, err := w.client.Run(w.Path, "add", "-A"); err != nil {
		log.ErrorLog.Printf("publish: failed to stage changes in %s: %v", w.Path, err)
		return false
	}

	status, err := w.client.Run(w.Path, "status", "--porcelain")
	if err != nil {
		log.ErrorLog.Printf("publish: failed to read status in %s: %v", w.Path, err)
		return false
	}
	if strings.TrimSpace(status) == "" {
		// Nothing to publish.
		return true
	}

	if _, err := w.client.Run(w.Path, "commit", "-m", message); err != nil {
		log.ErrorLog.Printf("publish: commit failed in %s: %v", w.Path, err)
	}

	// Rebase keeps history linear when it applies cleanly.
	if _, err := w.client.Run(w.Path, "pull", "--rebase", "origin", w.Branch); err != nil {
		if _, abortErr := w.client.Run(w.Path, "rebase", "--abort"); abortErr != nil {
			log.DebugLog.Printf("publish: rebase abort in %s: %v", w.Path, abortErr)
		}
		if _, err := w.client.Run(w.Path, "pull", "--no-rebase", "origin", w.Branch); err != nil {
			w.resolveOurs()
		}
	}

	if _, err := w.client.Run(w.Path, "push", "origin", w.Branch); err != nil {
		log.WarningLog.Printf("publish: push rejected for agent %s: %v", w.AgentID, err)
		return false
	}
	return true
}

// resolveOurs completes a conflicted merge by keeping the local version of
// every conflicting file.
func (w *Workspace) resolveOurs() {
	log.WarningLog.Printf("publish: merge conflict in %s, resolving with local versions", w.Path)
	if _, err := w.client.Run(w.Path, "checkout", "--ours", "."); err != nil {
		log.ErrorLog.Printf("publish: checkout --ours failed in %s: %v", w.Path, err)
	}
	if _, err := w.client.Run(w.Path, "add", "."); err != nil {
		log.ErrorLog.Printf("publish: failed to stage resolution in %s: %v", w.Path, err)
	}
	if _, err := w.client.Run(w.Path, "commit", "-m", oursMarkerMessage); err != nil {
		log.ErrorLog.Printf("publish: failed to commit resolution in %s: %v", w.Path, err)
	}
}
