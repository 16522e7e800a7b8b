package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Run     RunConfig     `toml:"run"`
	Logging LoggingConfig `toml:"logging"`
}

type RunConfig struct {
	Duration       time.Duration `toml:"duration"`
	Entities       int           `toml:"entities"`        // initial population
	Batch          int           `toml:"batch"`           // operations per frame
	DestroyRatio   float64       `toml:"destroy_ratio"`   // share of ops that destroy (0.0-1.0)
	CloneRatio     float64       `toml:"clone_ratio"`     // share of ops that clone (0.0-1.0)
	Seed           int64         `toml:"seed"`
	Profile        string        `toml:"profile"` // "cpu", "mem" or empty
	GCPauseMetrics bool          `toml:"gc_pause_metrics"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Run.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Run: RunConfig{
			Duration:     10 * time.Second,
			Entities:     10000,
			Batch:        256,
			DestroyRatio: 0.45,
			CloneRatio:   0.1,
			Seed:         1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (r RunConfig) validate() error {
	switch {
	case r.Entities < 0:
		return fmt.Errorf("entities must be >= 0, got %d", r.Entities)
	case r.Batch <= 0:
		return fmt.Errorf("batch must be > 0, got %d", r.Batch)
	case r.DestroyRatio < 0 || r.CloneRatio < 0 || r.DestroyRatio+r.CloneRatio > 1:
		return fmt.Errorf("destroy_ratio (%g) and clone_ratio (%g) must be non-negative and sum to at most 1", r.DestroyRatio, r.CloneRatio)
	case r.Profile != "" && r.Profile != "cpu" && r.Profile != "mem":
		return fmt.Errorf("unknown profile %q", r.Profile)
	}
	return nil
}
