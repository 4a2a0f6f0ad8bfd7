package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local-ai-stack/stackctl/internal/config"
)

func TestExecuteUpRequiresProfile(t *testing.T) {
	t.Setenv("STACKCTL_PROFILE", "")

	err := Execute([]string{"up"}, nil)
	require.Error(t, err)

	var cfgErr *config.Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.ReasonInvalidProfile, cfgErr.Reason)
	assert.Equal(t, ExitInvalidSelection, ExitCode(err))
}

func TestExecuteUpRejectsUnknownProfile(t *testing.T) {
	err := Execute([]string{"up", "--profile", "tpu"}, nil)
	require.Error(t, err)

	var cfgErr *config.Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.ReasonInvalidProfile, cfgErr.Reason)
}

func TestExecuteUpRejectsUnknownEnvironment(t *testing.T) {
	err := Execute([]string{"up", "--profile", "cpu", "--environment", "staging"}, nil)
	require.Error(t, err)

	var cfgErr *config.Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.ReasonInvalidEnvironment, cfgErr.Reason)
	assert.Equal(t, ExitInvalidSelection, ExitCode(err))
}

func TestExecuteUnknownCommand(t *testing.T) {
	err := Execute([]string{"launch"}, nil)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))
}

func TestLoadStackConfigAppliesOverrides(t *testing.T) {
	cfg, err := loadStackConfig(&Options{Project: "other", EnvFile: "custom.env"})
	require.NoError(t, err)
	assert.Equal(t, "other", cfg.Project)
	assert.Equal(t, "custom.env", cfg.EnvFile)
}
