package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/local-ai-stack/stackctl/internal/config"
	"github.com/local-ai-stack/stackctl/internal/runtime"
)

// newDoctorCommand creates the "doctor" subcommand that runs preflight checks
// before a first launch.
func newDoctorCommand(opts *Options) *cobra.Command {
	var (
		profileFlag     string
		environmentFlag string
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run preflight checks for the configured stack",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			cfg, err := loadStackConfig(opts)
			if err != nil {
				return err
			}

			if err := runDoctorChecks(ctx, logger, cfg, profileFlag, environmentFlag); err != nil {
				return err
			}

			logger.Info("doctor checks completed successfully", "project", cfg.Project)
			return nil
		},
	}

	cmd.Flags().StringVar(&profileFlag, "profile", string(config.ProfileCPU), "Hardware profile to validate secrets against")
	cmd.Flags().StringVar(&environmentFlag, "environment", string(config.EnvironmentPrivate), "Network exposure to validate secrets against")

	return cmd
}

func runDoctorChecks(ctx context.Context, logger *slog.Logger, cfg *config.StackConfig, profileValue, environmentValue string) error {
	var fatalErrs []error

	if err := runComposeVersionCheck(ctx); err != nil {
		logger.Error("docker compose check failed", "error", err)
		fatalErrs = append(fatalErrs, err)
	} else {
		logger.Info("docker compose check ok")
	}

	if err := runEngineCheck(ctx, cfg.Project); err != nil {
		logger.Error("docker engine check failed", "error", err)
		fatalErrs = append(fatalErrs, err)
	} else {
		logger.Info("docker engine check ok")
	}

	if err := runResolveCheck(cfg, profileValue, environmentValue); err != nil {
		logger.Error("configuration check failed", "error", err)
		fatalErrs = append(fatalErrs, err)
	} else {
		logger.Info("configuration check ok", "profile", profileValue, "environment", environmentValue)
	}

	if len(fatalErrs) > 0 {
		return fmt.Errorf("doctor found %d fatal issue(s); see log for details", len(fatalErrs))
	}
	return nil
}

func runComposeVersionCheck(ctx context.Context) error {
	if _, err := exec.LookPath("docker"); err != nil {
		return fmt.Errorf("docker binary not found in PATH: %w", err)
	}
	cmd := exec.CommandContext(ctx, "docker", "compose", "version")
	return cmd.Run()
}

func runEngineCheck(ctx context.Context, project string) error {
	docker, err := runtime.NewDocker()
	if err != nil {
		return err
	}
	_, err = docker.ProjectContainers(ctx, project)
	return err
}

// runResolveCheck runs the full configuration resolution dry, so secret
// problems surface here instead of during a launch.
func runResolveCheck(cfg *config.StackConfig, profileValue, environmentValue string) error {
	profile, err := config.ParseProfile(profileValue)
	if err != nil {
		return err
	}
	environment, err := config.ParseEnvironment(environmentValue)
	if err != nil {
		return err
	}

	sel, err := cfg.Select(profile)
	if err != nil {
		return err
	}
	_, err = cfg.Resolve(sel, environment, config.ResolveOptions{})
	return err
}
