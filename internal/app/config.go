package app

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// BaseDir is the directory relative paths are resolved against, both for
	// documents and for stage working directories. It is captured once at
	// startup and never changes during a run.
	BaseDir string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.BaseDir == "" {
		return nil, errors.New("BaseDir is a required configuration field and cannot be empty")
	}
	if !filepath.IsAbs(cfg.BaseDir) {
		return nil, fmt.Errorf("BaseDir must be absolute, got %q", cfg.BaseDir)
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", cfg.LogFormat)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}

// MergeOptions selects the documents for Merge.
type MergeOptions struct {
	StagesPath  string
	TargetsPath string
	OutputPath  string
}

// RunOptions configures Run.
type RunOptions struct {
	MergedPath string
	Workers    int
	// Only restricts the run to one qualified stage.
	Only string
	// WithDeps adds every transitive ancestor of Only.
	WithDeps bool
	Mode     string
	Policy   string
}

// CollectOptions selects the documents for Collect.
type CollectOptions struct {
	MergedPath string
	OutputPath string
}
