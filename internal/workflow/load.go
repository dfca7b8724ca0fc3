package workflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a workflow document. A parse failure yields a
// FormatError naming the path; schema violations are collected into a
// single ValidationError. Documents at an older schema version are migrated
// in memory and rewritten only when the migration changed something.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}

	doc, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	changed, err := Migrate(doc)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := Save(path, doc); err != nil {
			return nil, fmt.Errorf("rewrite migrated workflow: %w", err)
		}
	}

	return doc, nil
}

// Parse decodes and validates a document from bytes. path is used only for
// error reporting.
func Parse(path string, data []byte) (*Document, error) {
	var doc Document
	var violations []string
	if err := yaml.Unmarshal(data, &doc); err != nil {
		// yaml.v3 aggregates field-level type mismatches (wrong type,
		// scalar where an array belongs) into one TypeError and still
		// fills the fields that did decode, so schema validation below
		// runs either way and all violations surface together.
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			violations = append(violations, typeErr.Errors...)
		} else {
			return nil, &FormatError{Path: path, Err: err}
		}
	}

	violations = append(violations, validate(&doc)...)
	if len(violations) > 0 {
		return nil, &ValidationError{Path: path, Violations: violations}
	}

	return &doc, nil
}

// Save writes a document back to disk.
func Save(path string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal workflow: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create workflow directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// validate collects every schema violation in one pass.
func validate(doc *Document) []string {
	var violations []string

	if doc.Name == "" {
		violations = append(violations, "missing required field: name")
	}
	if doc.Version > CurrentVersion {
		violations = append(violations,
			fmt.Sprintf("unsupported schema version %d (current is %d)", doc.Version, CurrentVersion))
	}
	if len(doc.Steps) == 0 {
		violations = append(violations, "workflow has no steps")
	}

	seen := make(map[string]bool)
	for i, step := range doc.Steps {
		where := fmt.Sprintf("steps[%d]", i)
		if step.ID == "" {
			violations = append(violations, where+": missing required field: id")
		} else if seen[step.ID] {
			violations = append(violations, fmt.Sprintf("duplicate step id: %q", step.ID))
		} else {
			seen[step.ID] = true
		}
		if step.Type != "" && step.Type != StepTypeAgent {
			violations = append(violations, fmt.Sprintf("%s: unknown step type: %q", where, step.Type))
		}
		if step.Prompt == "" {
			violations = append(violations, where+": missing required field: prompt")
		}
	}

	return violations
}

// Discover lists workflow documents in a directory, keyed by name (the
// file name without extension).
func Discover(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read workflow directory: %w", err)
	}

	found := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		found[strings.TrimSuffix(name, ext)] = filepath.Join(dir, name)
	}
	return found, nil
}

// Names returns the sorted workflow names from a Discover result.
func Names(found map[string]string) []string {
	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
