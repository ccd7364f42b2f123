package app

import "errors"

// Config holds everything an App needs to run.
type Config struct {
	Files    []string // run scripts or directories of them
	Sets     []string // name=value overrides
	Generate string   // write the effective configuration here instead of running

	Help        bool
	HelpTopic   string
	ListModules bool
	Version     bool

	LogFormat   string
	LogLevel    string
	MetricsPort int
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Files) == 0 && !cfg.Help && !cfg.ListModules && !cfg.Version {
		return nil, errors.New("at least one run script is required")
	}
	if cfg.MetricsPort < 0 {
		return nil, errors.New("metrics port cannot be negative")
	}
	return &cfg, nil
}
