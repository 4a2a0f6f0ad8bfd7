// Package cli defines the command-line interface for stackctl.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/local-ai-stack/stackctl/internal/config"
	"github.com/local-ai-stack/stackctl/internal/logging"
)

// Options stores global CLI options shared between commands.
type Options struct {
	ConfigPath string
	Project    string
	EnvFile    string
	LogLevel   logging.Level
}

// Execute builds the root command, runs it with the provided args and logger,
// and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	var defaults baseEnv
	_ = parseEnv(&defaults)

	rootOpts := &Options{
		ConfigPath: defaults.ConfigPath,
		Project:    defaults.Project,
		EnvFile:    defaults.EnvFile,
		LogLevel:   logging.LevelInfo,
	}

	rootCmd := newRootCommand(rootOpts, logger, defaults.LogLevel)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, logger *slog.Logger, defaultLevel string) *cobra.Command {
	if defaultLevel == "" {
		defaultLevel = "info"
	}

	cmd := &cobra.Command{
		Use:   "stackctl",
		Short: "stackctl sequences the startup of the local AI stack",
		Long: "stackctl brings up the platform group and the core AI stack in the correct order " +
			"for a selected hardware profile and network exposure, against a single compose project.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logging.ParseLevel(cmd.Flag("log-level").Value.String())
			opts.LogLevel = level
			logger = logging.NewLogger(os.Stderr, level)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", opts.ConfigPath, "Path to stack.yaml (empty uses the built-in topology)")
	cmd.PersistentFlags().StringVar(&opts.Project, "project", opts.Project, "Compose project name override")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", opts.EnvFile, "Base .env file path override")
	cmd.PersistentFlags().String("log-level", defaultLevel, "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newUpCommand(opts),
		newDownCommand(opts),
		newStatusCommand(opts),
		newDoctorCommand(opts),
		newInitCommand(opts),
		newResetDBCommand(opts),
	)

	return cmd
}

// loadStackConfig loads stack.yaml and applies global overrides.
func loadStackConfig(opts *Options) (*config.StackConfig, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Project != "" {
		cfg.Project = opts.Project
	}
	if opts.EnvFile != "" {
		cfg.EnvFile = opts.EnvFile
	}
	return cfg, nil
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
