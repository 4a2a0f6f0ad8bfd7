package sequencer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local-ai-stack/stackctl/internal/compose"
	"github.com/local-ai-stack/stackctl/internal/config"
	"github.com/local-ai-stack/stackctl/internal/runtime"
)

// fakeComposer records every compose invocation instead of shelling out.
type fakeComposer struct {
	mu         sync.Mutex
	calls      []string
	upCalls    []compose.UpOptions
	buildCalls []compose.BuildOptions
	downCalls  []compose.DownOptions
	upErr      error
}

func (f *fakeComposer) Up(_ context.Context, opts compose.UpOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "up")
	f.upCalls = append(f.upCalls, opts)
	return f.upErr
}

func (f *fakeComposer) Build(_ context.Context, opts compose.BuildOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "build")
	f.buildCalls = append(f.buildCalls, opts)
	return nil
}

func (f *fakeComposer) Down(_ context.Context, opts compose.DownOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "down")
	f.downCalls = append(f.downCalls, opts)
	return nil
}

// fakeHealth reports a fixed health per service; unknown services are healthy.
type fakeHealth struct {
	byService map[string]runtime.Health
}

func (f *fakeHealth) ServiceHealth(_ context.Context, _, service string) (runtime.Health, error) {
	if h, ok := f.byService[service]; ok {
		return h, nil
	}
	return runtime.HealthHealthy, nil
}

func testStack(t *testing.T, extraRequired map[string][]string) *config.StackConfig {
	t.Helper()

	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("FOO=bar\n"), 0o600))

	services := []config.ServiceDefinition{
		{Name: "db", Group: config.GroupPlatform},
		{Name: "app", Group: config.GroupCoreStack, RequiresHealthyGroup: config.GroupPlatform, URL: "http://localhost:5678"},
		{Name: "worker", Group: config.GroupCoreStack},
	}
	for i := range services {
		if vars, ok := extraRequired[services[i].Name]; ok {
			services[i].RequiredVars = vars
		}
	}

	return &config.StackConfig{
		Project: "testproj",
		EnvFile: envPath,
		Compose: config.ComposeFiles{
			Platform:        "platform.yml",
			Stack:           "stack.yml",
			PrivateOverride: "override.private.yml",
		},
		Services: services,
	}
}

func newTestSequencer(t *testing.T, cfg *config.StackConfig, health *fakeHealth) (*Sequencer, *fakeComposer) {
	t.Helper()

	composer := &fakeComposer{}
	seq := New(cfg, composer, health, nil)
	seq.SetPollInterval(2 * time.Millisecond)
	return seq, composer
}

func TestRunHappyPath(t *testing.T) {
	cfg := testStack(t, nil)
	seq, composer := newTestSequencer(t, cfg, &fakeHealth{})

	result, err := seq.Run(context.Background(), Options{
		Profile:     config.ProfileCPU,
		Environment: config.EnvironmentPrivate,
	})
	require.NoError(t, err)

	assert.Equal(t, StateRunning, result.State)
	assert.NotEqual(t, uuid.Nil, result.RunID)
	assert.Equal(t, "bar", result.Config.Get("FOO"))

	assert.Equal(t, []State{
		StateResolving,
		StateProfileAndEnvResolved,
		StatePlatformStarting,
		StatePlatformHealthy,
		StateStackStarting,
		StateRunning,
	}, seq.Transitions())

	require.Len(t, composer.upCalls, 2)
	assert.Equal(t, []string{"platform.yml"}, composer.upCalls[0].Files)
	assert.Empty(t, composer.upCalls[0].Profile)
	assert.Equal(t, []string{"stack.yml", "override.private.yml"}, composer.upCalls[1].Files)
	assert.Equal(t, "cpu", composer.upCalls[1].Profile)
	assert.Contains(t, composer.upCalls[1].Env, "FOO=bar")
	assert.Empty(t, composer.downCalls)
}

func TestRunPlatformNeverStartsStackOnTimeout(t *testing.T) {
	cfg := testStack(t, nil)
	health := &fakeHealth{byService: map[string]runtime.Health{"db": runtime.HealthStarting}}
	seq, composer := newTestSequencer(t, cfg, health)

	_, err := seq.Run(context.Background(), Options{
		Profile:         config.ProfileCPU,
		Environment:     config.EnvironmentPrivate,
		PlatformTimeout: 20 * time.Millisecond,
	})

	var startErr *StartupError
	require.ErrorAs(t, err, &startErr)
	assert.Equal(t, KindPlatformStartupTimeout, startErr.Kind)
	assert.Equal(t, "db", startErr.Service)
	assert.Equal(t, StateAborted, seq.State())

	// The core stack was never launched and nothing was torn down.
	require.Len(t, composer.upCalls, 1)
	assert.Equal(t, []string{"platform.yml"}, composer.upCalls[0].Files)
	assert.Empty(t, composer.downCalls)
}

func TestRunFailsFastOnUnhealthyCoreService(t *testing.T) {
	cfg := testStack(t, nil)
	health := &fakeHealth{byService: map[string]runtime.Health{"app": runtime.HealthUnhealthy}}
	seq, composer := newTestSequencer(t, cfg, health)

	start := time.Now()
	_, err := seq.Run(context.Background(), Options{
		Profile:      config.ProfileCPU,
		Environment:  config.EnvironmentPrivate,
		StackTimeout: 10 * time.Second,
	})
	elapsed := time.Since(start)

	var startErr *StartupError
	require.ErrorAs(t, err, &startErr)
	assert.Equal(t, KindServiceStartupFailure, startErr.Kind)
	assert.Equal(t, "app", startErr.Service)
	assert.Less(t, elapsed, 5*time.Second, "unhealthy service must abort before the deadline")
	assert.Len(t, composer.upCalls, 2)
}

func TestRunRebuildPrecedesStartup(t *testing.T) {
	cfg := testStack(t, nil)
	seq, composer := newTestSequencer(t, cfg, &fakeHealth{})

	result, err := seq.Run(context.Background(), Options{
		Profile:     config.ProfileCPU,
		Environment: config.EnvironmentPrivate,
		Rebuild:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, StateRunning, result.State)

	assert.Equal(t, []string{"build", "build", "up", "up"}, composer.calls)
	require.Len(t, composer.buildCalls, 2)
	assert.Equal(t, []string{"platform.yml"}, composer.buildCalls[0].Files)
	assert.Equal(t, []string{"stack.yml", "override.private.yml"}, composer.buildCalls[1].Files)
	assert.Contains(t, seq.Transitions(), StateRebuilding)
}

func TestRunTeardownOnFailureIsOptIn(t *testing.T) {
	cfg := testStack(t, nil)
	health := &fakeHealth{byService: map[string]runtime.Health{"db": runtime.HealthStarting}}
	seq, composer := newTestSequencer(t, cfg, health)

	_, err := seq.Run(context.Background(), Options{
		Profile:           config.ProfileCPU,
		Environment:       config.EnvironmentPrivate,
		PlatformTimeout:   20 * time.Millisecond,
		TeardownOnFailure: true,
	})
	require.Error(t, err)

	// Teardown stops the core stack first, then the platform.
	require.Len(t, composer.downCalls, 2)
	assert.Equal(t, []string{"stack.yml", "override.private.yml"}, composer.downCalls[0].Files)
	assert.Equal(t, []string{"platform.yml"}, composer.downCalls[1].Files)
}

func TestRunRejectsInvalidProfileBeforeLaunch(t *testing.T) {
	cfg := testStack(t, nil)
	seq, composer := newTestSequencer(t, cfg, &fakeHealth{})

	result, err := seq.Run(context.Background(), Options{
		Profile:     config.Profile("tpu"),
		Environment: config.EnvironmentPrivate,
	})

	var cfgErr *config.Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.ReasonInvalidProfile, cfgErr.Reason)
	assert.Equal(t, StateAborted, result.State)
	assert.Equal(t, []State{StateResolving, StateAborted}, seq.Transitions())
	assert.Empty(t, composer.calls)
}

func TestRunAbortsBeforeLaunchOnMissingSecret(t *testing.T) {
	cfg := testStack(t, map[string][]string{"app": {"APP_TOKEN"}})
	seq, composer := newTestSequencer(t, cfg, &fakeHealth{})

	_, err := seq.Run(context.Background(), Options{
		Profile:     config.ProfileCPU,
		Environment: config.EnvironmentPrivate,
	})

	var cfgErr *config.Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.ReasonMissingSecret, cfgErr.Reason)
	assert.Equal(t, "APP_TOKEN", cfgErr.Key)
	assert.Empty(t, composer.calls, "no container action before configuration resolves")
}

func TestRunPublicAbortsBeforeLaunchWithoutHostname(t *testing.T) {
	cfg := testStack(t, nil)
	for i := range cfg.Services {
		if cfg.Services[i].Name == "app" {
			cfg.Services[i].HostnameVar = "APP_HOSTNAME"
		}
	}
	seq, composer := newTestSequencer(t, cfg, &fakeHealth{})

	_, err := seq.Run(context.Background(), Options{
		Profile:     config.ProfileCPU,
		Environment: config.EnvironmentPublic,
	})

	var cfgErr *config.Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.ReasonMissingSecret, cfgErr.Reason)
	assert.Equal(t, "APP_HOSTNAME", cfgErr.Key)
	assert.Empty(t, composer.calls)
}

func TestRunSurfacesComposeFailure(t *testing.T) {
	cfg := testStack(t, nil)
	composer := &fakeComposer{upErr: errors.New("daemon unreachable")}
	seq := New(cfg, composer, &fakeHealth{}, nil)
	seq.SetPollInterval(2 * time.Millisecond)

	result, err := seq.Run(context.Background(), Options{
		Profile:     config.ProfileCPU,
		Environment: config.EnvironmentPrivate,
	})
	require.Error(t, err)
	assert.Equal(t, StateAborted, result.State)
}

func TestRunTwiceIsRepeatable(t *testing.T) {
	cfg := testStack(t, nil)
	seq, composer := newTestSequencer(t, cfg, &fakeHealth{})

	for i := 0; i < 2; i++ {
		result, err := seq.Run(context.Background(), Options{
			Profile:     config.ProfileCPU,
			Environment: config.EnvironmentPrivate,
		})
		require.NoError(t, err)
		assert.Equal(t, StateRunning, result.State)
	}

	// Re-running never stops anything; compose leaves healthy containers alone.
	assert.Len(t, composer.upCalls, 4)
	assert.Empty(t, composer.downCalls)
}

func TestDownStopsStackBeforePlatform(t *testing.T) {
	cfg := testStack(t, nil)
	seq, composer := newTestSequencer(t, cfg, &fakeHealth{})

	effective, err := cfg.LenientResolve(config.ResolveOptions{})
	require.NoError(t, err)

	err = seq.Down(context.Background(), config.EnvironmentPrivate, config.ProfileCPU, effective)
	require.NoError(t, err)

	require.Len(t, composer.downCalls, 2)
	assert.Equal(t, []string{"stack.yml", "override.private.yml"}, composer.downCalls[0].Files)
	assert.Equal(t, "cpu", composer.downCalls[0].Profile)
	assert.Equal(t, []string{"platform.yml"}, composer.downCalls[1].Files)
	assert.Empty(t, composer.downCalls[1].Profile)
}

func TestRunRespectsContextCancellation(t *testing.T) {
	cfg := testStack(t, nil)
	health := &fakeHealth{byService: map[string]runtime.Health{"db": runtime.HealthStarting}}
	seq, _ := newTestSequencer(t, cfg, health)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := seq.Run(ctx, Options{
		Profile:         config.ProfileCPU,
		Environment:     config.EnvironmentPrivate,
		PlatformTimeout: 10 * time.Second,
	})
	require.ErrorIs(t, err, context.Canceled)
}
