package git

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"codeswarm/log"
)

// Repository layout shared by every workspace clone.
const (
	// TasksDir holds one lock record per claimed task.
	TasksDir = "current_tasks"
	// AgentLogsDir holds per-agent log artifacts.
	AgentLogsDir = "agent_logs"
	// ProgressFile is the free-form status file agents keep up to date.
	ProgressFile = "PROGRESS.md"

	// ControlDir is the local control-plane directory, never seeded upstream.
	ControlDir = ".swarm"
)

const progressSeed = `# Progress

This file is maintained by the swarm agents.
Each agent updates it with status, completed tasks, and next steps.
`

// Upstream is the single shared bare repository all agents push to and pull
// from. It is the only synchronization substrate in the system: every claim,
// change, and release travels through it as a commit.
type Upstream struct {
	// Path to the bare repository.
	Path string
	// Branch agents coordinate on.
	Branch string

	client Client
}

// InitUpstream creates (or re-uses) the bare repository that all agents share.
//
// If source is non-empty the upstream is created as a full bare clone of it.
// Otherwise an empty bare repository is initialized and a single scaffold
// commit is synthesized through a transient working clone, establishing the
// tasks directory, the agent-log directory, and the progress file. Calling it
// against an already-initialized upstream is a no-op.
//
// Bootstrap errors are fatal to the caller: this is a one-time, synchronous
// operation with no partial or retry state.
func InitUpstream(client Client, location, source, branch string) (*Upstream, error) {
	absPath, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upstream path: %w", err)
	}

	if IsBareRepo(absPath) {
		// Already initialized — nothing to do.
		return &Upstream{Path: absPath, Branch: branch, client: client}, nil
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upstream directory: %w", err)
	}

	if source != "" {
		if _, err := client.Run("", "clone", "--bare", source, absPath); err != nil {
			return nil, fmt.Errorf("failed to clone source into upstream: %w", err)
		}
		return &Upstream{Path: absPath, Branch: branch, client: client}, nil
	}

	if _, err := client.Run("", "init", "--bare", "--initial-branch", branch, absPath); err != nil {
		return nil, fmt.Errorf("failed to init upstream: %w", err)
	}

	u := &Upstream{Path: absPath, Branch: branch, client: client}
	if err := u.seedScaffold(); err != nil {
		return nil, err
	}
	return u, nil
}

// seedScaffold pushes the initial commit agents expect to find. A bare
// repository cannot be edited directly, so the commit is made in a transient
// clone that is discarded after the push.
func (u *Upstream) seedScaffold() error {
	tmp, err := os.MkdirTemp("", "codeswarm-init-")
	if err != nil {
		return fmt.Errorf("failed to create transient clone directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	if _, err := u.client.Run("", "clone", u.Path, tmp); err != nil {
		return fmt.Errorf("failed to clone upstream for seeding: %w", err)
	}
	if _, err := u.client.Run(tmp, "checkout", "-b", u.Branch); err != nil {
		// A clone of the empty upstream is usually already on the unborn
		// branch, in which case there is nothing to create.
		log.DebugLog.Printf("checkout -b %s in seed clone: %v", u.Branch, err)
	}

	for _, dir := range []string{TasksDir, AgentLogsDir} {
		if err := os.MkdirAll(filepath.Join(tmp, dir), 0755); err != nil {
			return fmt.Errorf("failed to create scaffold directory %s: %w", dir, err)
		}
		// Git does not track empty directories.
		keep := filepath.Join(tmp, dir, ".gitkeep")
		if err := os.WriteFile(keep, nil, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", keep, err)
		}
	}
	if err := os.WriteFile(filepath.Join(tmp, ProgressFile), []byte(progressSeed), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ProgressFile, err)
	}

	if _, err := u.client.Run(tmp, "add", "."); err != nil {
		return fmt.Errorf("failed to stage scaffold: %w", err)
	}
	if _, err := u.client.Run(tmp, "commit", "-m", "Initial swarm scaffold"); err != nil {
		return fmt.Errorf("failed to commit scaffold: %w", err)
	}
	if _, err := u.client.Run(tmp, "push", "origin", u.Branch); err != nil {
		return fmt.Errorf("failed to push scaffold: %w", err)
	}
	return nil
}

// SeedProject copies the contents of an existing project directory into the
// upstream through a transient clone. The project's own version-control
// metadata and any local control-plane directory are excluded. A commit is
// made only when the working tree actually changed, so re-seeding unchanged
// content is a no-op.
func (u *Upstream) SeedProject(projectPath string) error {
	project, err := filepath.Abs(projectPath)
	if err != nil {
		return fmt.Errorf("failed to resolve project path: %w", err)
	}

	tmp, err := os.MkdirTemp("", "codeswarm-seed-")
	if err != nil {
		return fmt.Errorf("failed to create transient clone directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	if _, err := u.client.Run("", "clone", u.Path, tmp); err != nil {
		return fmt.Errorf("failed to clone upstream for seeding: %w", err)
	}
	if _, err := u.client.Run(tmp, "checkout", u.Branch); err != nil {
		log.DebugLog.Printf("checkout %s in seed clone: already on branch", u.Branch)
	}

	if err := copyTree(project, tmp); err != nil {
		return fmt.Errorf("failed to copy project files: %w", err)
	}

	if _, err := u.client.Run(tmp, "add", "."); err != nil {
		return fmt.Errorf("failed to stage project files: %w", err)
	}
	status, err := u.client.Run(tmp, "status", "--porcelain")
	if err != nil {
		return fmt.Errorf("failed to check seed status: %w", err)
	}
	if strings.TrimSpace(status) == "" {
		// Nothing changed since the last seed.
		return nil
	}

	if _, err := u.client.Run(tmp, "commit", "-m", "Seed project files"); err != nil {
		return fmt.Errorf("failed to commit project files: %w", err)
	}
	if _, err := u.client.Run(tmp, "push", "origin", u.Branch); err != nil {
		return fmt.Errorf("failed to push project files: %w", err)
	}
	return nil
}

// copyTree copies src into dst, skipping version-control metadata and the
// swarm control directory at any depth.
func copyTree(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Name() == ".git" || entry.Name() == ControlDir {
			continue
		}
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := os.MkdirAll(to, 0755); err != nil {
				return err
			}
			if err := copyTree(from, to); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(from, to); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
