// Package workflow loads, validates, migrates and resolves the declarative
// step-sequence documents that drive task execution.
//
// A workflow document is one YAML file. The schema is versioned; documents
// written against an older schema are migrated forward on load, with every
// optional field absent from the old schema backfilled with its documented
// default.
package workflow

// CurrentVersion is the current workflow schema version.
//
// Version history:
//
//	1: initial schema (no defaults/config blocks)
//	2: adds defaults{provider,model} and config{timeout_seconds,continue_on_error}
const CurrentVersion = 2

// Baseline values applied when neither step nor workflow sets them.
const (
	DefaultTimeoutSeconds = 3600
	DefaultRetries        = 0
	DefaultProvider       = "claude"
)

// StepTypeAgent is the only step type currently defined.
const StepTypeAgent = "agent"

// Document is a versioned workflow definition.
type Document struct {
	Version     int       `yaml:"version"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Inputs      []Input   `yaml:"inputs,omitempty"`
	Outputs     []Output  `yaml:"outputs,omitempty"`
	Defaults    Defaults  `yaml:"defaults"`
	Config      DocConfig `yaml:"config"`
	Steps       []Step    `yaml:"steps"`
}

// Input declares a workflow input.
type Input struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type,omitempty"`
	Required bool   `yaml:"required,omitempty"`
	Default  string `yaml:"default,omitempty"`
}

// Output declares a workflow or step output.
type Output struct {
	Name string `yaml:"name"`
	Type string `yaml:"type,omitempty"`
}

// Defaults holds workflow-level provider/model defaults.
type Defaults struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
}

// DocConfig holds workflow-level execution settings.
type DocConfig struct {
	TimeoutSeconds  int  `yaml:"timeout_seconds,omitempty"`
	ContinueOnError bool `yaml:"continue_on_error,omitempty"`
}

// Step is one unit of work in a workflow.
type Step struct {
	ID       string     `yaml:"id"`
	Type     string     `yaml:"type"`
	Name     string     `yaml:"name,omitempty"`
	Prompt   string     `yaml:"prompt"`
	Provider string     `yaml:"provider,omitempty"`
	Model    string     `yaml:"model,omitempty"`
	Config   StepConfig `yaml:"config,omitempty"`
	Outputs  []Output   `yaml:"outputs,omitempty"`
}

// StepConfig holds per-step execution overrides. Zero values mean "not
// set"; resolution falls through to the workflow config, then baselines.
type StepConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
	Retries        int `yaml:"retries,omitempty"`
}
