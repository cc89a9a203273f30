// Package config loads runner settings from the environment.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/ironsheep/radial-sequencer/internal/landmark"
)

type Config struct {
	InputDir       string
	OutputDir      string
	PredictionsDir string // defaults to InputDir when empty
	DBPath         string // empty disables the result store
	Workers        int
	LabelLandmark  string
	LabelAnchor    string
	LabelCenter    string
}

func Load() *Config {
	labels := landmark.DefaultLabels()
	return &Config{
		InputDir:       getEnv("LANDMARK_INPUT_DIR", "./input"),
		OutputDir:      getEnv("LANDMARK_OUTPUT_DIR", "./output"),
		PredictionsDir: getEnv("LANDMARK_PREDICTIONS_DIR", ""),
		DBPath:         getEnv("LANDMARK_DB_PATH", ""),
		Workers:        getEnvInt("LANDMARK_WORKERS", runtime.NumCPU()),
		LabelLandmark:  getEnv("LANDMARK_LABEL_LANDMARK", labels.Landmark),
		LabelAnchor:    getEnv("LANDMARK_LABEL_ANCHOR", labels.Anchor),
		LabelCenter:    getEnv("LANDMARK_LABEL_CENTER", labels.Center),
	}
}

// Labels returns the configured label names as a LabelSet.
func (c *Config) Labels() landmark.LabelSet {
	return landmark.LabelSet{
		Landmark: c.LabelLandmark,
		Anchor:   c.LabelAnchor,
		Center:   c.LabelCenter,
	}
}

// Predictions returns the directory holding prediction JSON files.
func (c *Config) Predictions() string {
	if c.PredictionsDir == "" {
		return c.InputDir
	}
	return c.PredictionsDir
}

func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output dir is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if err := c.Labels().Validate(); err != nil {
		return err
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt falls back to defaultVal when the variable is unset or not a number.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
