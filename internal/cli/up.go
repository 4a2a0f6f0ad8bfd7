package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/local-ai-stack/stackctl/internal/compose"
	"github.com/local-ai-stack/stackctl/internal/config"
	"github.com/local-ai-stack/stackctl/internal/env"
	"github.com/local-ai-stack/stackctl/internal/runtime"
	"github.com/local-ai-stack/stackctl/internal/sequencer"
)

// newUpCommand creates the "up" subcommand that sequences the stack startup.
func newUpCommand(opts *Options) *cobra.Command {
	var (
		profileFlag     string
		environmentFlag string
		rebuild         bool
		teardown        bool
		setFlag         string
		platformTimeout string
		stackTimeout    string
	)

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Start the platform group, then the core stack, in order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			var defaults upEnv
			_ = parseEnv(&defaults)

			profileValue := profileFlag
			if profileValue == "" {
				profileValue = defaults.Profile
			}
			if profileValue == "" {
				return &config.Error{
					Reason: config.ReasonInvalidProfile,
					Key:    "--profile",
					Detail: "a hardware profile is required (none, cpu, gpu-nvidia, gpu-amd)",
				}
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

			overrides, err := env.ParseInlineVars(setFlag)
			if err != nil {
				return err
			}

			cfg, err := loadStackConfig(opts)
			if err != nil {
				return err
			}

			docker, err := runtime.NewDocker()
			if err != nil {
				return err
			}

			seq := sequencer.New(cfg, compose.NewClient(cfg.Project, logger), docker, logger)

			runOpts := sequencer.Options{
				Profile:           profile,
				Environment:       environment,
				Rebuild:           rebuild,
				TeardownOnFailure: teardown,
				Overrides:         overrides,
				PlatformTimeout:   parseDurationFlag(platformTimeout, defaults.PlatformTimeout),
				StackTimeout:      parseDurationFlag(stackTimeout, defaults.StackTimeout),
			}

			result, err := seq.Run(cmd.Context(), runOpts)
			if err != nil {
				return err
			}

			logger.Info("run complete", "run_id", result.RunID, "state", result.State)
			return nil
		},
	}

	cmd.Flags().StringVar(&profileFlag, "profile", "", "Hardware profile (none, cpu, gpu-nvidia, gpu-amd)")
	cmd.Flags().StringVar(&environmentFlag, "environment", string(config.EnvironmentPrivate), "Network exposure (private, public)")
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Rebuild service images before starting, to refresh baked-in configuration")
	cmd.Flags().BoolVar(&teardown, "teardown-on-failure", false, "Tear the partial topology down on startup failure instead of leaving it for diagnosis")
	cmd.Flags().StringVar(&setFlag, "set", "", "Inline variable overrides in k=v,k2=v2 format")
	cmd.Flags().StringVar(&platformTimeout, "platform-timeout", "", "Bound on the platform group health wait (e.g. 5m)")
	cmd.Flags().StringVar(&stackTimeout, "stack-timeout", "", "Bound on the core stack health wait (e.g. 10m)")

	return cmd
}

// parseDurationFlag parses the flag value, falling back to the env default.
// Zero means "use the stack config's timeout".
func parseDurationFlag(flagValue, envValue string) time.Duration {
	for _, v := range []string{flagValue, envValue} {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return 0
}
