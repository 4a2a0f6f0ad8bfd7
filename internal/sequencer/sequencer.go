// Package sequencer contains the orchestration logic that brings the platform
// group and the core stack up in the correct order for a single run.
package sequencer

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/local-ai-stack/stackctl/internal/compose"
	"github.com/local-ai-stack/stackctl/internal/config"
	"github.com/local-ai-stack/stackctl/internal/env"
	"github.com/local-ai-stack/stackctl/internal/runtime"
)

// defaultPollInterval is the health poll cadence during startup waits.
const defaultPollInterval = 3 * time.Second

// Composer is the start/stop/build surface of the container runtime.
type Composer interface {
	Up(ctx context.Context, opts compose.UpOptions) error
	Build(ctx context.Context, opts compose.BuildOptions) error
	Down(ctx context.Context, opts compose.DownOptions) error
}

// HealthChecker polls the readiness signal a service's container exposes.
type HealthChecker interface {
	ServiceHealth(ctx context.Context, project, service string) (runtime.Health, error)
}

// Sequencer owns the topology for the duration of one run. It is the sole
// writer to the runtime during a run; concurrent invocations are a documented
// misuse, not a guarded failure mode.
type Sequencer struct {
	cfg      *config.StackConfig
	composer Composer
	health   HealthChecker
	logger   *slog.Logger

	pollInterval time.Duration
	state        State
	transitions  []State
}

// New constructs a sequencer over the given topology and runtime boundary.
func New(cfg *config.StackConfig, composer Composer, health HealthChecker, logger *slog.Logger) *Sequencer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sequencer{
		cfg:          cfg,
		composer:     composer,
		health:       health,
		logger:       logger,
		pollInterval: defaultPollInterval,
		state:        StateIdle,
	}
}

// SetPollInterval overrides the health poll cadence. Tests use this to keep
// timeout scenarios fast.
func (s *Sequencer) SetPollInterval(d time.Duration) {
	if d > 0 {
		s.pollInterval = d
	}
}

// Options carries per-run inputs.
type Options struct {
	// Profile is the requested hardware profile.
	Profile config.Profile
	// Environment is the requested exposure mode.
	Environment config.Environment
	// Rebuild forces image rebuilds before each start step.
	Rebuild bool
	// TeardownOnFailure tears the partial topology down on a startup failure
	// instead of leaving it for diagnosis. Off by default.
	TeardownOnFailure bool
	// EnvFile overrides the stack config's env file path when set.
	EnvFile string
	// Overrides are inline variables layered over the env file.
	Overrides env.Vars
	// PlatformTimeout overrides the platform health wait when positive.
	PlatformTimeout time.Duration
	// StackTimeout overrides the core stack health wait when positive.
	StackTimeout time.Duration
}

// Result describes a completed run.
type Result struct {
	// RunID identifies the run in logs.
	RunID uuid.UUID
	// State is the terminal state reached.
	State State
	// Selection is the profile-selected service set.
	Selection config.Selection
	// Config is the effective configuration the run used.
	Config config.EffectiveConfiguration
}

// Run drives a single startup sequence to Running or a named failure.
// Configuration errors abort before any container is started. Startup errors
// leave the partial topology in place unless TeardownOnFailure is set.
func (s *Sequencer) Run(ctx context.Context, opts Options) (Result, error) {
	result := Result{RunID: uuid.New()}
	logger := s.logger.With("run_id", result.RunID)

	s.state = StateIdle
	s.transitions = nil

	s.transition(StateResolving)
	sel, err := s.cfg.Select(opts.Profile)
	if err != nil {
		s.transition(StateAborted)
		return s.finish(result, err)
	}
	result.Selection = sel

	exposure, err := s.cfg.Expose(opts.Environment)
	if err != nil {
		s.transition(StateAborted)
		return s.finish(result, err)
	}

	effective, err := s.cfg.Resolve(sel, opts.Environment, config.ResolveOptions{
		EnvFile:   opts.EnvFile,
		Overrides: opts.Overrides,
	})
	if err != nil {
		s.transition(StateAborted)
		return s.finish(result, err)
	}
	result.Config = effective

	s.transition(StateProfileAndEnvResolved)
	logger.Info("configuration resolved",
		"profile", sel.Profile,
		"environment", opts.Environment,
		"services", len(sel.Services),
		"vars", effective.Len())

	platformFiles := append([]string{s.cfg.Compose.Platform}, exposure.PlatformOverrides...)
	stackFiles := append([]string{s.cfg.Compose.Stack}, exposure.StackOverrides...)
	composeProfile := sel.Profile.ComposeProfile()
	environ := effective.Environ()

	if opts.Rebuild {
		s.transition(StateRebuilding)
		logger.Info("rebuilding service images to pick up baked-in configuration")
		for _, files := range [][]string{platformFiles, stackFiles} {
			err := s.composer.Build(ctx, compose.BuildOptions{
				Files:   files,
				Profile: composeProfile,
				Env:     environ,
			})
			if err != nil {
				s.transition(StateAborted)
				return s.finish(result, err)
			}
		}
	}

	s.transition(StatePlatformStarting)
	logger.Info("starting platform group")
	err = s.composer.Up(ctx, compose.UpOptions{
		Files: platformFiles,
		Env:   environ,
	})
	if err != nil {
		s.transition(StateAborted)
		return s.finish(result, err)
	}

	platformServices := servicesOf(sel, config.GroupPlatform)
	err = s.waitHealthy(ctx, logger, platformServices, s.platformTimeout(opts), false)
	if err != nil {
		s.transition(StateAborted)
		s.maybeTeardown(ctx, logger, opts, platformFiles, stackFiles, composeProfile, environ)
		return s.finish(result, err)
	}
	s.transition(StatePlatformHealthy)
	logger.Info("platform group healthy", "services", len(platformServices))

	s.transition(StateStackStarting)
	logger.Info("starting core stack", "profile", sel.Profile)
	err = s.composer.Up(ctx, compose.UpOptions{
		Files:   stackFiles,
		Profile: composeProfile,
		Env:     environ,
	})
	if err != nil {
		s.transition(StateAborted)
		s.maybeTeardown(ctx, logger, opts, platformFiles, stackFiles, composeProfile, environ)
		return s.finish(result, err)
	}

	stackServices := servicesOf(sel, config.GroupCoreStack)
	err = s.waitHealthy(ctx, logger, stackServices, s.stackTimeout(opts), true)
	if err != nil {
		s.transition(StateAborted)
		s.maybeTeardown(ctx, logger, opts, platformFiles, stackFiles, composeProfile, environ)
		return s.finish(result, err)
	}

	s.transition(StateRunning)
	result.State = StateRunning
	s.announce(logger, sel)
	return result, nil
}

// Down stops the whole topology. Persisted volumes stay in place.
func (s *Sequencer) Down(ctx context.Context, environment config.Environment, profile config.Profile, effective config.EffectiveConfiguration) error {
	exposure, err := s.cfg.Expose(environment)
	if err != nil {
		return err
	}

	environ := effective.Environ()
	stackFiles := append([]string{s.cfg.Compose.Stack}, exposure.StackOverrides...)
	err = s.composer.Down(ctx, compose.DownOptions{
		Files:   stackFiles,
		Profile: profile.ComposeProfile(),
		Env:     environ,
	})
	if err != nil {
		return err
	}

	platformFiles := append([]string{s.cfg.Compose.Platform}, exposure.PlatformOverrides...)
	return s.composer.Down(ctx, compose.DownOptions{
		Files: platformFiles,
		Env:   environ,
	})
}

// waitHealthy blocks until every listed service reports ready, or fails with
// a startup error naming the first service still pending. When failFast is
// set an unhealthy report aborts immediately instead of waiting out the
// deadline; the platform wait lets restart policies recover until timeout.
func (s *Sequencer) waitHealthy(ctx context.Context, logger *slog.Logger, services []config.ServiceDefinition, timeout time.Duration, failFast bool) error {
	if len(services) == 0 {
		return nil
	}

	deadline := time.Now().Add(timeout)
	pending := append([]config.ServiceDefinition(nil), services...)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		var next []config.ServiceDefinition
		for _, svc := range pending {
			health, err := s.health.ServiceHealth(ctx, s.cfg.Project, svc.Name)
			if err != nil {
				return err
			}
			if health.Ready() {
				logger.Debug("service ready", "service", svc.Name, "health", health)
				continue
			}
			if failFast && health == runtime.HealthUnhealthy {
				return s.startupError(svc)
			}
			next = append(next, svc)
		}
		pending = next
		if len(pending) == 0 {
			return nil
		}

		if time.Now().After(deadline) {
			return s.startupError(pending[0])
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// startupError names the failing service with the kind matching its group.
func (s *Sequencer) startupError(svc config.ServiceDefinition) error {
	kind := KindServiceStartupFailure
	if svc.Group == config.GroupPlatform {
		kind = KindPlatformStartupTimeout
	}
	return &StartupError{Kind: kind, Service: svc.Name, Group: svc.Group}
}

// maybeTeardown runs the opt-in teardown-on-failure extension. By default the
// partial topology stays up: most failures are configuration errors best
// diagnosed via the logs of the partially-started component.
func (s *Sequencer) maybeTeardown(ctx context.Context, logger *slog.Logger, opts Options, platformFiles, stackFiles []string, profile string, environ []string) {
	if !opts.TeardownOnFailure {
		logger.Warn("startup failed; leaving partial topology running for diagnosis")
		return
	}

	logger.Warn("startup failed; tearing partial topology down")
	err := s.composer.Down(ctx, compose.DownOptions{Files: stackFiles, Profile: profile, Env: environ})
	if err != nil {
		logger.Error("teardown of core stack failed", "error", err)
	}
	err = s.composer.Down(ctx, compose.DownOptions{Files: platformFiles, Env: environ})
	if err != nil {
		logger.Error("teardown of platform group failed", "error", err)
	}
}

// finish records the terminal state on the result.
func (s *Sequencer) finish(result Result, err error) (Result, error) {
	result.State = s.state
	return result, err
}

// announce logs the service URLs reachable after a successful run.
func (s *Sequencer) announce(logger *slog.Logger, sel config.Selection) {
	logger.Info("stack is running", "profile", sel.Profile)
	for _, svc := range sel.Services {
		if svc.URL != "" {
			logger.Info("service available", "service", svc.Name, "url", svc.URL)
		}
	}
}

func (s *Sequencer) platformTimeout(opts Options) time.Duration {
	if opts.PlatformTimeout > 0 {
		return opts.PlatformTimeout
	}
	return s.cfg.PlatformTimeout()
}

func (s *Sequencer) stackTimeout(opts Options) time.Duration {
	if opts.StackTimeout > 0 {
		return opts.StackTimeout
	}
	return s.cfg.StackTimeout()
}

// servicesOf filters the selection down to one startup group.
func servicesOf(sel config.Selection, group config.Group) []config.ServiceDefinition {
	var out []config.ServiceDefinition
	for _, svc := range sel.Services {
		if svc.Group == group {
			out = append(out, svc)
		}
	}
	return out
}
