package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DataPath   string // .hcl static data: variables + configurations
	ValuesPath string // optional YAML file of raw UI values
	ConfigName string // configuration to resolve or export

	ExportBindings bool
	ShowProvenance bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DataPath == "" {
		return nil, errors.New("DataPath is a required configuration field and cannot be empty")
	}
	if cfg.ConfigName == "" && !cfg.ExportBindings {
		return nil, errors.New("a configuration name is required unless exporting all bindings")
	}
	return &cfg, nil
}
