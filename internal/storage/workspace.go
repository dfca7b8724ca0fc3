// Package storage persists taktwerk state inside a repository.
//
// Layout under the repository root:
//
//	.taktwerk/config.yaml   workspace configuration
//	.taktwerk/.env          optional credentials, loaded into the environment
//	.taktwerk/tasks/        one YAML record per task
//	.taktwerk/workflows/    workflow documents
//
// All records are whole-file read-modify-write: load, mutate in memory,
// atomically overwrite (temp file + rename). Concurrent external edits are
// not reconciled; last writer wins.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	dirName         = ".taktwerk"
	tasksDirName    = "tasks"
	workflowDirName = "workflows"
)

// Workspace manages task storage within a repository.
type Workspace struct {
	root     string // repository root
	taskRoot string // .taktwerk directory
}

// Open opens a workspace rooted at repoRoot.
func Open(repoRoot string) (*Workspace, error) {
	absRoot, err := filepath.Abs(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	return &Workspace{
		root:     absRoot,
		taskRoot: filepath.Join(absRoot, dirName),
	}, nil
}

// Root returns the repository root path.
func (w *Workspace) Root() string {
	return w.root
}

// TaskRoot returns the .taktwerk directory path.
func (w *Workspace) TaskRoot() string {
	return w.taskRoot
}

// TasksDir returns the directory holding task records.
func (w *Workspace) TasksDir() string {
	return filepath.Join(w.taskRoot, tasksDirName)
}

// WorkflowsDir returns the directory holding workflow documents.
func (w *Workspace) WorkflowsDir() string {
	return filepath.Join(w.taskRoot, workflowDirName)
}

// EnsureInitialized creates the workspace directories.
func (w *Workspace) EnsureInitialized() error {
	for _, dir := range []string{w.TasksDir(), w.WorkflowsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create workspace directories: %w", err)
		}
	}
	return nil
}

// writeYAML marshals v and atomically replaces path with it.
func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// readYAML unmarshals path into v.
func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
