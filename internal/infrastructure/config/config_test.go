package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 2, cfg.Layout.MinPaneWidth)
	assert.Equal(t, 1, cfg.Layout.MinPaneHeight)
	assert.Equal(t, 9, cfg.Morph.HSteps)
	assert.Equal(t, 3, cfg.Morph.VSteps)
	assert.Equal(t, 200, cfg.Morph.MaxSteps)
	assert.Equal(t, 20, cfg.History.MaxLength)
	assert.True(t, cfg.Morph.Enabled)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	// With no environment set, Load matches Default.
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WORKGRID_MORPH_HSTEPS", "4")
	t.Setenv("WORKGRID_HISTORY_MAX", "7")
	t.Setenv("WORKGRID_MORPH_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Morph.HSteps)
	assert.Equal(t, 7, cfg.History.MaxLength)
	assert.False(t, cfg.Morph.Enabled)
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	t.Setenv("WORKGRID_MORPH_MAX_STEPS", "not-a-number")

	_, err := Load()
	require.Error(t, err)

	cfg := LoadOrDefault()
	assert.Equal(t, Default().Morph.MaxSteps, cfg.Morph.MaxSteps)
}
