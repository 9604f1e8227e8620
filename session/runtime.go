package session

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"codeswarm/log"
)

// Container is a minimal view of a runtime container.
type Container struct {
	ID   string
	Name string
}

// RunOptions configures a detached container start.
type RunOptions struct {
	Name     string
	Hostname string
	Image    string
	Env      []string
	// Volumes are host:container mount specs.
	Volumes []string
	Network string
}

// Runtime is the narrow container-runtime capability the orchestrator needs.
// The production implementation shells out to the docker CLI; tests use an
// in-memory fake.
type Runtime interface {
	// EnsureImage makes the image available locally, building it when the
	// build context contains a Dockerfile and pulling it otherwise.
	EnsureImage(image, buildContext string) error
	// Run starts a detached container and returns its id.
	Run(opts RunOptions) (string, error)
	// Inspect returns the container's state, e.g. "running" or "exited".
	Inspect(id string) (string, error)
	Stop(id string) error
	Remove(id string) error
	// Logs returns up to tail lines of the container's output.
	Logs(id string, tail int) (string, error)
	// List returns containers whose name starts with namePrefix, running or
	// not. It queries the runtime fresh so it works across process restarts.
	List(namePrefix string) ([]Container, error)
}

// DockerRuntime implements Runtime with the docker binary on PATH.
type DockerRuntime struct{}

// NewDockerRuntime returns the production docker-CLI runtime.
func NewDockerRuntime() Runtime {
	return DockerRuntime{}
}

func (DockerRuntime) run(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("docker command failed: %s (%w)", output, err)
	}
	return string(output), nil
}

func (d DockerRuntime) EnsureImage(image, buildContext string) error {
	dockerfile := filepath.Join(buildContext, "Dockerfile")
	if _, err := os.Stat(dockerfile); err == nil {
		log.InfoLog.Printf("building image %s from %s", image, buildContext)
		if _, err := d.run("build", "-t", image, buildContext); err != nil {
			return fmt.Errorf("failed to build image %s: %w", image, err)
		}
		return nil
	}

	if _, err := d.run("image", "inspect", image); err == nil {
		return nil
	}
	log.InfoLog.Printf("pulling image %s", image)
	if _, err := d.run("pull", image); err != nil {
		return fmt.Errorf("failed to pull image %s: %w", image, err)
	}
	return nil
}

func (d DockerRuntime) Run(opts RunOptions) (string, error) {
	args := []string{"run", "-d", "--name", opts.Name}
	if opts.Hostname != "" {
		args = append(args, "--hostname", opts.Hostname)
	}
	if opts.Network != "" {
		args = append(args, "--network", opts.Network)
	}
	for _, env := range opts.Env {
		args = append(args, "-e", env)
	}
	for _, vol := range opts.Volumes {
		args = append(args, "-v", vol)
	}
	args = append(args, opts.Image)

	output, err := d.run(args...)
	if err != nil {
		return "", err
	}
	id := strings.TrimSpace(output)
	if len(id) > 12 {
		id = id[:12]
	}
	return id, nil
}

func (d DockerRuntime) Inspect(id string) (string, error) {
	output, err := d.run("inspect", "--format", "{{.State.Status}}", id)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

func (d DockerRuntime) Stop(id string) error {
	_, err := d.run("stop", id)
	return err
}

func (d DockerRuntime) Remove(id string) error {
	_, err := d.run("rm", id)
	return err
}

func (d DockerRuntime) Logs(id string, tail int) (string, error) {
	return d.run("logs", "--tail", strconv.Itoa(tail), id)
}

func (d DockerRuntime) List(namePrefix string) ([]Container, error) {
	output, err := d.run("ps", "-a", "--filter", "name="+namePrefix, "--format", "{{.ID}} {{.Names}}")
	if err != nil {
		return nil, err
	}
	return parseContainerList(output, namePrefix), nil
}

// parseContainerList parses `docker ps` id/name lines. The runtime's name
// filter is an unanchored substring match, so every name is re-checked
// against the prefix to keep unrelated containers out.
func parseContainerList(output, namePrefix string) []Container {
	var containers []Container
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		id, name, ok := strings.Cut(strings.TrimSpace(line), " ")
		if !ok || !strings.HasPrefix(name, namePrefix) {
			continue
		}
		containers = append(containers, Container{ID: id, Name: name})
	}
	return containers
}
