package app

import (
	"errors"
	"fmt"
	"slices"
)

// Output formats accepted by Config.Output.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

var (
	outputFormats = []string{OutputText, OutputJSON, OutputYAML}
	logFormats    = []string{"text", "json"}
	logLevels     = []string{"debug", "info", "warn", "error"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Target string

	DeclPaths []string // hcl files or directories
	EnvFiles  []string // hcl, json, jsonc or yaml files

	// Platform and ContainerName override every other environment source
	// when set.
	Platform      *string
	ContainerName *string
	Groups        map[string][]string
	UseProcessEnv bool

	Revision         int // 0 selects the latest revision
	DependenciesOnly bool
	Strict           bool
	PackageRoots     []string

	Output      string
	ActionsOnly bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Target == "" {
		return nil, errors.New("Target is a required configuration field and cannot be empty")
	}
	if cfg.Revision < 0 {
		return nil, fmt.Errorf("invalid revision %d: must be 0 (latest) or positive", cfg.Revision)
	}

	if cfg.Output == "" {
		cfg.Output = OutputText
	}
	if !slices.Contains(outputFormats, cfg.Output) {
		return nil, fmt.Errorf("invalid output %q: must be 'text', 'json' or 'yaml'", cfg.Output)
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	return &cfg, nil
}
