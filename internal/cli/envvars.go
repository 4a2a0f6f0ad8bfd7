package cli

import (
	envparse "github.com/caarlos0/env/v11"
)

// baseEnv defines root CLI defaults sourced from STACKCTL_* env vars.
type baseEnv struct {
	// ConfigPath is the stack.yaml path from STACKCTL_CONFIG.
	ConfigPath string `env:"STACKCTL_CONFIG"`
	// Project is the compose project name from STACKCTL_PROJECT.
	Project string `env:"STACKCTL_PROJECT"`
	// EnvFile is the base .env path from STACKCTL_ENV_FILE.
	EnvFile string `env:"STACKCTL_ENV_FILE"`
	// LogLevel is the logging level from STACKCTL_LOG_LEVEL.
	LogLevel string `env:"STACKCTL_LOG_LEVEL"`
}

// upEnv captures STACKCTL_* defaults for the up command.
type upEnv struct {
	// Profile is the hardware profile from STACKCTL_PROFILE.
	Profile string `env:"STACKCTL_PROFILE"`
	// Environment is the exposure mode from STACKCTL_ENVIRONMENT.
	Environment string `env:"STACKCTL_ENVIRONMENT"`
	// PlatformTimeout bounds the platform wait from STACKCTL_PLATFORM_TIMEOUT.
	PlatformTimeout string `env:"STACKCTL_PLATFORM_TIMEOUT"`
	// StackTimeout bounds the core stack wait from STACKCTL_STACK_TIMEOUT.
	StackTimeout string `env:"STACKCTL_STACK_TIMEOUT"`
}

// parseEnv fills target from STACKCTL_* env vars via caarlos0/env.
func parseEnv(target any) error {
	return envparse.Parse(target)
}
