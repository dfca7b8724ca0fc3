package workflow

import (
	"fmt"
	"sort"
	"time"
)

// Step returns the step with the given id.
func (d *Document) Step(id string) (*Step, error) {
	for i := range d.Steps {
		if d.Steps[i].ID == id {
			return &d.Steps[i], nil
		}
	}
	return nil, &NotFoundError{StepID: id}
}

// StepProvider resolves the agent provider for a step: step override, else
// workflow default, else the hardcoded baseline.
func (d *Document) StepProvider(id string) (string, error) {
	step, err := d.Step(id)
	if err != nil {
		return "", err
	}
	if step.Provider != "" {
		return step.Provider, nil
	}
	if d.Defaults.Provider != "" {
		return d.Defaults.Provider, nil
	}
	return DefaultProvider, nil
}

// StepModel resolves the model for a step. Empty means provider default.
func (d *Document) StepModel(id string) (string, error) {
	step, err := d.Step(id)
	if err != nil {
		return "", err
	}
	if step.Model != "" {
		return step.Model, nil
	}
	return d.Defaults.Model, nil
}

// StepTimeout resolves the timeout for a step.
func (d *Document) StepTimeout(id string) (time.Duration, error) {
	step, err := d.Step(id)
	if err != nil {
		return 0, err
	}
	seconds := step.Config.TimeoutSeconds
	if seconds == 0 {
		seconds = d.Config.TimeoutSeconds
	}
	if seconds == 0 {
		seconds = DefaultTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second, nil
}

// StepRetries resolves the retry count for a step.
func (d *Document) StepRetries(id string) (int, error) {
	step, err := d.Step(id)
	if err != nil {
		return 0, err
	}
	if step.Config.Retries > 0 {
		return step.Config.Retries, nil
	}
	return DefaultRetries, nil
}

// InputResult is the outcome of ValidateInputs: every error and warning
// found in one pass, never short-circuited.
type InputResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// ValidateInputs checks provided values against the declared inputs.
// Errors: a required input without a default that is missing from
// provided; an input name declared twice. Warnings: provided keys the
// workflow does not declare.
func (d *Document) ValidateInputs(provided map[string]string) InputResult {
	result := InputResult{}

	declared := make(map[string]bool, len(d.Inputs))
	for _, in := range d.Inputs {
		if declared[in.Name] {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Input %q is declared more than once", in.Name))
			continue
		}
		declared[in.Name] = true

		if !in.Required || in.Default != "" {
			continue
		}
		if _, ok := provided[in.Name]; !ok {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Required input %q is missing", in.Name))
		}
	}

	var undeclared []string
	for name := range provided {
		if !declared[name] {
			undeclared = append(undeclared, name)
		}
	}
	sort.Strings(undeclared)
	for _, name := range undeclared {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Input %q is not declared by workflow %q", name, d.Name))
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// ResolveInputs merges declared defaults with provided values; provided
// values win.
func (d *Document) ResolveInputs(provided map[string]string) map[string]string {
	resolved := make(map[string]string, len(d.Inputs))
	for _, in := range d.Inputs {
		if in.Default != "" {
			resolved[in.Name] = in.Default
		}
	}
	for k, v := range provided {
		resolved[k] = v
	}
	return resolved
}
