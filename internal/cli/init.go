package cli

import (
	"github.com/spf13/cobra"

	"github.com/local-ai-stack/stackctl/internal/prepare"
)

// newInitCommand creates the "init" subcommand that performs the one-time
// bootstrap steps. init is the only command that writes to the env file; the
// up command's resolver never mutates it.
func newInitCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate secrets and bootstrap files before the first launch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			cfg, err := loadStackConfig(opts)
			if err != nil {
				return err
			}

			replaced, err := prepare.GenerateSecrets(cfg.EnvFile, logger)
			if err != nil {
				return err
			}
			if replaced == 0 {
				logger.Info("secrets already configured", "env_file", cfg.EnvFile)
			} else {
				logger.Info("secrets generated", "env_file", cfg.EnvFile, "replaced", replaced)
			}

			if cfg.SearchDir != "" {
				if err := prepare.EnsureSearchSettings(cfg.SearchDir, logger); err != nil {
					return err
				}
			}

			if cfg.PlatformDir != "" {
				if err := prepare.WritePlatformEnv(cfg.EnvFile, cfg.PlatformDir); err != nil {
					return err
				}
				logger.Info("platform env file written", "dir", cfg.PlatformDir)
			}

			return nil
		},
	}
}
