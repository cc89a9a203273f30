package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/radial-sequencer/internal/landmark"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"LANDMARK_INPUT_DIR", "LANDMARK_OUTPUT_DIR", "LANDMARK_PREDICTIONS_DIR",
		"LANDMARK_DB_PATH", "LANDMARK_WORKERS", "LANDMARK_LABEL_LANDMARK",
		"LANDMARK_LABEL_ANCHOR", "LANDMARK_LABEL_CENTER",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	c := Load()

	require.Equal(t, "./input", c.InputDir)
	require.Equal(t, "./output", c.OutputDir)
	require.Equal(t, "./input", c.Predictions())
	require.Empty(t, c.DBPath)
	require.Equal(t, runtime.NumCPU(), c.Workers)
	require.Equal(t, landmark.DefaultLabels(), c.Labels())
	require.NoError(t, c.Validate())
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("LANDMARK_INPUT_DIR", "/in")
	t.Setenv("LANDMARK_PREDICTIONS_DIR", "/pred")
	t.Setenv("LANDMARK_DB_PATH", "/tmp/r.db")
	t.Setenv("LANDMARK_WORKERS", "3")
	t.Setenv("LANDMARK_LABEL_CENTER", "HUB")

	c := Load()
	require.Equal(t, "/in", c.InputDir)
	require.Equal(t, "/pred", c.Predictions())
	require.Equal(t, "/tmp/r.db", c.DBPath)
	require.Equal(t, 3, c.Workers)
	require.Equal(t, "HUB", c.Labels().Center)
}

func TestLoad_BadWorkersFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("LANDMARK_WORKERS", "many")
	require.Equal(t, runtime.NumCPU(), Load().Workers)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no input", func(c *Config) { c.InputDir = "" }},
		{"no output", func(c *Config) { c.OutputDir = "" }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"duplicate labels", func(c *Config) { c.LabelAnchor = c.LabelLandmark }},
		{"empty label", func(c *Config) { c.LabelCenter = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			c := Load()
			tt.mutate(c)
			require.Error(t, c.Validate())
		})
	}
}
