// Package compose provides low-level integration with the container runtime
// via the docker compose CLI.
package compose

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/local-ai-stack/stackctl/internal/logging"
)

// Client wraps docker compose execution scoped to one compose project.
type Client struct {
	// Project is the compose project name shared by both service groups.
	Project string

	logger *slog.Logger
}

// NewClient constructs a compose client for the given project.
func NewClient(project string, logger *slog.Logger) *Client {
	return &Client{Project: project, logger: logger}
}

// UpOptions describes one composed launch.
type UpOptions struct {
	// Files is the compose file followed by its override files, in order.
	Files []string
	// Profile is the compose profile to activate, empty for none.
	Profile string
	// Build forces image rebuilds from each service's build context before
	// the start step. Volumes are never touched.
	Build bool
	// Env is the effective configuration passed to the compose process.
	Env []string
}

// Up starts the services described by the given files in detached mode.
// Already-running healthy services are left untouched by the runtime.
func (c *Client) Up(ctx context.Context, opts UpOptions) error {
	args := upArgs(c.Project, opts)
	return c.run(ctx, args, opts.Env)
}

// BuildOptions describes a rebuild of the images referenced by compose files.
type BuildOptions struct {
	// Files is the compose file followed by its override files, in order.
	Files []string
	// Profile is the compose profile to activate, empty for none.
	Profile string
	// Env is the effective configuration passed to the compose process.
	Env []string
}

// Build rebuilds every included service's image from its build context so
// that variables baked in at image-build time are refreshed.
func (c *Client) Build(ctx context.Context, opts BuildOptions) error {
	args := buildArgs(c.Project, opts)
	return c.run(ctx, args, opts.Env)
}

// DownOptions describes an explicit stop of the topology.
type DownOptions struct {
	// Files is the compose file followed by its override files, in order.
	Files []string
	// Profile is the compose profile to activate, empty for none.
	Profile string
	// Env is the effective configuration passed to the compose process.
	Env []string
}

// Down stops and removes the project's containers. Persisted volumes are
// never removed.
func (c *Client) Down(ctx context.Context, opts DownOptions) error {
	args := downArgs(c.Project, opts)
	return c.run(ctx, args, opts.Env)
}

// upArgs builds the argument list for a composed launch.
func upArgs(project string, opts UpOptions) []string {
	args := baseArgs(project, opts.Profile, opts.Files)
	args = append(args, "up", "-d")
	if opts.Build {
		args = append(args, "--build")
	}
	return args
}

// buildArgs builds the argument list for an image rebuild.
func buildArgs(project string, opts BuildOptions) []string {
	args := baseArgs(project, opts.Profile, opts.Files)
	return append(args, "build")
}

// downArgs builds the argument list for an explicit stop.
func downArgs(project string, opts DownOptions) []string {
	args := baseArgs(project, opts.Profile, opts.Files)
	return append(args, "down")
}

func baseArgs(project, profile string, files []string) []string {
	args := []string{"compose", "-p", project}
	if profile != "" {
		args = append(args, "--profile", profile)
	}
	for _, f := range files {
		if f == "" {
			continue
		}
		args = append(args, "-f", f)
	}
	return args
}

func (c *Client) run(ctx context.Context, args []string, extraEnv []string) error {
	if c.logger != nil {
		c.logger.Debug("running docker compose", "args", args)
	}

	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Stdout = logging.NewWriter(c.logger, "compose")
	cmd.Stderr = logging.NewWriter(c.logger, "compose")

	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker %v failed: %w", args, err)
	}
	return nil
}
