package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthReady(t *testing.T) {
	assert.True(t, HealthHealthy.Ready())
	assert.True(t, HealthNone.Ready())
	assert.False(t, HealthStarting.Ready())
	assert.False(t, HealthUnhealthy.Ready())
	assert.False(t, HealthMissing.Ready())
}
