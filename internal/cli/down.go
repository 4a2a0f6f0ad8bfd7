package cli

import (
	"github.com/spf13/cobra"

	"github.com/local-ai-stack/stackctl/internal/compose"
	"github.com/local-ai-stack/stackctl/internal/config"
	"github.com/local-ai-stack/stackctl/internal/runtime"
	"github.com/local-ai-stack/stackctl/internal/sequencer"
)

// newDownCommand creates the "down" subcommand that stops the whole topology.
// Persisted volumes stay in place across down/up cycles.
func newDownCommand(opts *Options) *cobra.Command {
	var (
		profileFlag     string
		environmentFlag string
	)

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Stop and remove the stack's containers (volumes are preserved)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			var defaults upEnv
			_ = parseEnv(&defaults)

			profileValue := profileFlag
			if profileValue == "" && defaults.Profile != "" {
				profileValue = defaults.Profile
			}
			if profileValue == "" {
				profileValue = string(config.ProfileNone)
			}
			profile, err := config.ParseProfile(profileValue)
			if err != nil {
				return err
			}

			environmentValue := environmentFlag
			if !cmd.Flags().Changed("environment") && defaults.Environment != "" {
				environmentValue = defaults.Environment
			}
			environment, err := config.ParseEnvironment(environmentValue)
			if err != nil {
				return err
			}

			cfg, err := loadStackConfig(opts)
			if err != nil {
				return err
			}

			// Stopping must work against a half-configured installation, so
			// the env file is loaded without secret validation here.
			effective, err := cfg.LenientResolve(config.ResolveOptions{})
			if err != nil {
				return err
			}

			docker, err := runtime.NewDocker()
			if err != nil {
				return err
			}

			seq := sequencer.New(cfg, compose.NewClient(cfg.Project, logger), docker, logger)

			logger.Info("stopping topology", "project", cfg.Project)
			return seq.Down(cmd.Context(), environment, profile, effective)
		},
	}

	cmd.Flags().StringVar(&profileFlag, "profile", "", "Hardware profile the stack was started with")
	cmd.Flags().StringVar(&environmentFlag, "environment", string(config.EnvironmentPrivate), "Network exposure the stack was started with")

	return cmd
}
