package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/valksor/go-taktwerk/internal/task"
)

// ErrTaskNotFound marks a lookup that matched neither id scheme.
var ErrTaskNotFound = errors.New("task not found")

// Task records are named by identity scheme: T<n>.yaml for local ids,
// <issue>.yaml once synchronized with the external tracker. The record is
// renamed at the sync boundary; lookups try both schemes.

func localFile(id string) string {
	return "T" + id + ".yaml"
}

func issueFile(id string) string {
	return id + ".yaml"
}

// NextID allocates the next local sequential task id by scanning the
// registry. Single-writer per invocation; collisions between concurrent
// invocations resolve last-writer-wins like every other registry write.
func (w *Workspace) NextID() (string, error) {
	entries, err := os.ReadDir(w.TasksDir())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("scan tasks: %w", err)
	}

	max := 0
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".yaml")
		name = strings.TrimPrefix(name, "T")
		if n, err := strconv.Atoi(name); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1), nil
}

// SaveTask persists a task record under its current identity scheme.
func (w *Workspace) SaveTask(t *task.Task) error {
	if err := os.MkdirAll(w.TasksDir(), 0o755); err != nil {
		return fmt.Errorf("create tasks directory: %w", err)
	}

	name := localFile(t.ID)
	if t.Synced() {
		name = issueFile(t.Key())
	}
	return writeYAML(filepath.Join(w.TasksDir(), name), t)
}

// LoadTask finds a task by reference, trying the local-id scheme first and
// the issue-number scheme second.
func (w *Workspace) LoadTask(ref string) (*task.Task, error) {
	for _, name := range []string{localFile(ref), issueFile(ref)} {
		path := filepath.Join(w.TasksDir(), name)
		var t task.Task
		err := readYAML(path, &t)
		if err == nil {
			return &t, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
}

// DeleteTask removes a task record under whichever scheme it exists.
func (w *Workspace) DeleteTask(ref string) error {
	for _, name := range []string{localFile(ref), issueFile(ref)} {
		err := os.Remove(filepath.Join(w.TasksDir(), name))
		if err == nil {
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
}

// ListTasks loads every task record, sorted by creation time.
func (w *Workspace) ListTasks() ([]*task.Task, error) {
	entries, err := os.ReadDir(w.TasksDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan tasks: %w", err)
	}

	var tasks []*task.Task
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		var t task.Task
		if err := readYAML(filepath.Join(w.TasksDir(), entry.Name()), &t); err != nil {
			continue // skip unreadable records, they stay on disk for inspection
		}
		tasks = append(tasks, &t)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// SyncTask renames a task record from the local-id scheme to the
// issue-number scheme. This is the synchronization boundary: after it, the
// task's on-disk identity is the external issue number.
func (w *Workspace) SyncTask(t *task.Task, tracker string, issueNumber int) error {
	if issueNumber <= 0 {
		return fmt.Errorf("invalid issue number: %d", issueNumber)
	}
	if t.Synced() {
		return fmt.Errorf("task %s already synced to issue %d", t.ID, t.IssueNumber)
	}

	oldPath := filepath.Join(w.TasksDir(), localFile(t.ID))

	t.Tracker = tracker
	t.IssueNumber = issueNumber
	t.ID = strconv.Itoa(issueNumber)

	if err := w.SaveTask(t); err != nil {
		return err
	}
	if err := os.Remove(oldPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove pre-sync record: %w", err)
	}
	return nil
}
