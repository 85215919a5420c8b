package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, 5, c.Estimator.WindowSize)
	assert.Equal(t, 10, c.Estimator.Cadence)
	assert.Equal(t, 0.1, c.Estimator.SpeedFloor)
	assert.Equal(t, "passenger", c.Network.Mode)
	assert.Equal(t, 100, c.Routing.MaxAttempts)
	assert.Equal(t, time.Second, c.Simulation.ConnectInterval)
	assert.False(t, c.Output.LegacyTrailingComma)
}

func TestLoadFromYAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	err := v.ReadConfig(strings.NewReader(`
estimator:
  window_size: 3
  cadence: 1
routing:
  max_attempts: 0
output:
  path: out.json.bz2
`))
	require.NoError(t, err)

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Estimator.WindowSize)
	assert.Equal(t, 1, c.Estimator.Cadence)
	assert.Equal(t, 0, c.Routing.MaxAttempts)
	assert.Equal(t, "out.json.bz2", c.Output.Path)
	assert.Equal(t, 0.1, c.Estimator.SpeedFloor)
}

func TestLoadRejectsInvalidWindow(t *testing.T) {
	v := viper.New()
	v.Set("estimator.window_size", 0)

	_, err := Load(v)
	assert.Error(t, err)
}
