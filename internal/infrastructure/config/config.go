package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all engine configuration.
type Config struct {
	Layout  LayoutConfig
	Morph   MorphConfig
	History HistoryConfig
	Store   StoreConfig
	Logging LogConfig
}

// LayoutConfig holds tree geometry configuration.
type LayoutConfig struct {
	MinPaneWidth  int `envconfig:"WORKGRID_MIN_PANE_WIDTH" default:"2"`
	MinPaneHeight int `envconfig:"WORKGRID_MIN_PANE_HEIGHT" default:"1"`
}

// MorphConfig holds morph animation configuration. Terminal step sizes are
// the coarse profile used on low-resolution surfaces.
type MorphConfig struct {
	Enabled    bool `envconfig:"WORKGRID_MORPH_ENABLED" default:"true"`
	HSteps     int  `envconfig:"WORKGRID_MORPH_HSTEPS" default:"9"`
	VSteps     int  `envconfig:"WORKGRID_MORPH_VSTEPS" default:"3"`
	TermHSteps int  `envconfig:"WORKGRID_MORPH_TERM_HSTEPS" default:"3"`
	TermVSteps int  `envconfig:"WORKGRID_MORPH_TERM_VSTEPS" default:"1"`
	MaxSteps   int  `envconfig:"WORKGRID_MORPH_MAX_STEPS" default:"200"`
	RateHz     int  `envconfig:"WORKGRID_MORPH_RATE_HZ" default:"60"`
}

// HistoryConfig holds undo history configuration.
type HistoryConfig struct {
	MaxLength int `envconfig:"WORKGRID_HISTORY_MAX" default:"20"`
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	Path string `envconfig:"WORKGRID_STORE_PATH" default:"workgroups.json"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"WORKGRID_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"WORKGRID_LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			MinPaneWidth:  2,
			MinPaneHeight: 1,
		},
		Morph: MorphConfig{
			Enabled:    true,
			HSteps:     9,
			VSteps:     3,
			TermHSteps: 3,
			TermVSteps: 1,
			MaxSteps:   200,
			RateHz:     60,
		},
		History: HistoryConfig{
			MaxLength: 20,
		},
		Store: StoreConfig{
			Path: "workgroups.json",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
