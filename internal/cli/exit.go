package cli

import (
	"errors"

	"github.com/local-ai-stack/stackctl/internal/config"
	"github.com/local-ai-stack/stackctl/internal/sequencer"
)

// Exit codes, one per failure class, so callers can branch without parsing
// log output.
const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitConfigError      = 2
	ExitInvalidSelection = 3
	ExitPlatformTimeout  = 4
	ExitServiceFailure   = 5
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		switch cfgErr.Reason {
		case config.ReasonInvalidProfile, config.ReasonInvalidEnvironment:
			return ExitInvalidSelection
		default:
			return ExitConfigError
		}
	}

	var startErr *sequencer.StartupError
	if errors.As(err, &startErr) {
		if startErr.Kind == sequencer.KindPlatformStartupTimeout {
			return ExitPlatformTimeout
		}
		return ExitServiceFailure
	}

	return ExitFailure
}
