package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// Dir is the name of the taktwerk configuration directory.
	Dir = ".taktwerk"
	// FileName is the name of the workspace configuration file.
	FileName = "config.yaml"
)

// Path returns the config file path for a repository root.
func Path(root string) string {
	return filepath.Join(root, Dir, FileName)
}

// Load reads .taktwerk/config.yaml from the given repository root.
// A missing file yields the defaults, not an error.
func Load(root string) (*Config, error) {
	cfg := NewDefault()

	data, err := os.ReadFile(Path(root))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", Path(root), err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// Save writes the config back to .taktwerk/config.yaml.
func Save(root string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyDefaults fills zero fields left empty by a partial config file.
func applyDefaults(cfg *Config) {
	def := NewDefault()
	if cfg.Agent.Default == "" {
		cfg.Agent.Default = def.Agent.Default
	}
	if cfg.Workflow.Default == "" {
		cfg.Workflow.Default = def.Workflow.Default
	}
	if cfg.Workflow.Dir == "" {
		cfg.Workflow.Dir = def.Workflow.Dir
	}
	if cfg.Git.BranchPrefix == "" {
		cfg.Git.BranchPrefix = def.Git.BranchPrefix
	}
	if cfg.Git.Remote == "" {
		cfg.Git.Remote = def.Git.Remote
	}
}
