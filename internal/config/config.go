// Package config holds workspace configuration for taktwerk.
//
// Configuration lives in .taktwerk/config.yaml at the repository root.
// Secrets (provider tokens) are never stored there; they come from the
// environment, optionally seeded from .taktwerk/.env.
package config

// Config holds all workspace configuration.
type Config struct {
	Agent    AgentConfig    `yaml:"agent"`
	Workflow WorkflowConfig `yaml:"workflow"`
	Git      GitConfig      `yaml:"git"`
	Tracker  TrackerConfig  `yaml:"tracker"`
}

// AgentConfig selects the default agent provider.
type AgentConfig struct {
	Default string `yaml:"default"`
	Model   string `yaml:"model,omitempty"`
}

// WorkflowConfig selects the default workflow.
type WorkflowConfig struct {
	Default string `yaml:"default"`
	Dir     string `yaml:"dir,omitempty"` // relative to .taktwerk, defaults to "workflows"
}

// GitConfig holds git-related settings.
type GitConfig struct {
	BaseBranch   string `yaml:"base_branch,omitempty"` // empty = auto-detect
	BranchPrefix string `yaml:"branch_prefix,omitempty"`
	Remote       string `yaml:"remote,omitempty"`
}

// TrackerConfig selects the external issue tracker.
type TrackerConfig struct {
	Name string `yaml:"name,omitempty"` // "github", "gitlab", empty = disabled
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Agent: AgentConfig{
			Default: "claude",
		},
		Workflow: WorkflowConfig{
			Default: "implement",
			Dir:     "workflows",
		},
		Git: GitConfig{
			BranchPrefix: "takt",
			Remote:       "origin",
		},
	}
}
