package sequencer

import (
	"fmt"

	"github.com/local-ai-stack/stackctl/internal/config"
)

// StartupKind classifies launch failures.
type StartupKind string

const (
	// KindPlatformStartupTimeout means the platform group did not become
	// healthy within the bounded wait.
	KindPlatformStartupTimeout StartupKind = "PlatformStartupTimeout"
	// KindServiceStartupFailure means a core-stack service failed its health
	// check within the bounded wait.
	KindServiceStartupFailure StartupKind = "ServiceStartupFailure"
)

// StartupError is fatal to the run but intentionally leaves whatever topology
// state was reached, so the operator can inspect the named service's logs.
type StartupError struct {
	// Kind classifies the failure.
	Kind StartupKind
	// Service names the first service that failed or never became healthy.
	Service string
	// Group is the service's startup group.
	Group config.Group
}

// Error implements the error interface.
func (e *StartupError) Error() string {
	return fmt.Sprintf("%s: service %q (%s group) did not become healthy", e.Kind, e.Service, e.Group)
}
