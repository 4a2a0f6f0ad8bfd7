package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/local-ai-stack/stackctl/internal/prepare"
)

// newResetDBCommand creates the "reset-db" subcommand that moves the platform
// database data directory aside so it reinitializes on the next startup.
func newResetDBCommand(opts *Options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset-db",
		Short: "Back up and reset the platform database data directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			cfg, err := loadStackConfig(opts)
			if err != nil {
				return err
			}

			if cfg.DatabaseDataDir == "" {
				return fmt.Errorf("no database data directory configured")
			}
			if !yes {
				return fmt.Errorf("reset-db moves %q aside and reinitializes the database; re-run with --yes to confirm", cfg.DatabaseDataDir)
			}

			backup, err := prepare.BackupDatabaseDir(cfg.DatabaseDataDir)
			if err != nil {
				return err
			}

			logger.Info("database data moved aside; it will reinitialize on next startup", "backup", backup)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset without prompting")

	return cmd
}
