package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvironment(t *testing.T) {
	for _, e := range Environments() {
		got, err := ParseEnvironment(string(e))
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}

	_, err := ParseEnvironment("staging")
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, ReasonInvalidEnvironment, cfgErr.Reason)
}

func TestExposePrivateLayersOnlyStackOverride(t *testing.T) {
	cfg := DefaultStack()

	exp, err := cfg.Expose(EnvironmentPrivate)
	require.NoError(t, err)
	assert.Equal(t, []string{cfg.Compose.PrivateOverride}, exp.StackOverrides)
	assert.Empty(t, exp.PlatformOverrides)
}

func TestExposePublicLayersBothOverrides(t *testing.T) {
	cfg := DefaultStack()

	exp, err := cfg.Expose(EnvironmentPublic)
	require.NoError(t, err)
	assert.Equal(t, []string{cfg.Compose.PublicOverride}, exp.StackOverrides)
	assert.Equal(t, []string{cfg.Compose.PublicPlatformOverride}, exp.PlatformOverrides)
}

func TestPublishedPortsPrivateExposesNativePorts(t *testing.T) {
	cfg := DefaultStack()
	sel, err := cfg.Select(ProfileCPU)
	require.NoError(t, err)

	ports := cfg.PublishedPorts(sel, EnvironmentPrivate)
	assert.Equal(t, []int{8000}, ports["kong"])
	assert.Equal(t, []int{5678}, ports["n8n"])
	assert.Equal(t, []int{7474, 7687}, ports["neo4j"])
	assert.Equal(t, []int{80, 443}, ports["caddy"])
	// Services without published ports do not appear at all.
	assert.NotContains(t, ports, "db")
}

func TestPublishedPortsPublicExposesOnlyProxy(t *testing.T) {
	cfg := DefaultStack()
	sel, err := cfg.Select(ProfileCPU)
	require.NoError(t, err)

	ports := cfg.PublishedPorts(sel, EnvironmentPublic)
	require.Len(t, ports, 1)
	assert.Equal(t, []int{80, 443}, ports["caddy"])
}
