package app

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// WorkspacePath points at a single .hcl file or a directory tree of
	// them. It has no env form; it arrives as the CLI's positional
	// argument.
	WorkspacePath string

	LogFormat       string `env:"DIRIGENT_LOG_FORMAT" envDefault:"json"`
	LogLevel        string `env:"DIRIGENT_LOG_LEVEL" envDefault:"info"`
	HealthcheckPort int    `env:"DIRIGENT_HEALTHCHECK_PORT" envDefault:"0"`
	Watch           bool   `env:"DIRIGENT_WATCH" envDefault:"false"`
}

// FromEnv returns a Config seeded from the environment; unset variables fall
// back to their defaults. The CLI layers flags on top, so flags always win.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.WorkspacePath == "" {
		return nil, errors.New("WorkspacePath is a required configuration field and cannot be empty")
	}

	// Future validations for other fields can be added here.

	return &cfg, nil
}
