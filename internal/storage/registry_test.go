package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/valksor/go-taktwerk/internal/task"
)

func openWorkspace(t *testing.T) *Workspace {
	t.Helper()
	ws, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := ws.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized() error = %v", err)
	}
	return ws
}

func TestNextIDSequential(t *testing.T) {
	ws := openWorkspace(t)

	id, err := ws.NextID()
	if err != nil {
		t.Fatalf("NextID() error = %v", err)
	}
	if id != "1" {
		t.Errorf("first NextID() = %q, want 1", id)
	}

	if err := ws.SaveTask(task.New("1", "a", "implement")); err != nil {
		t.Fatal(err)
	}
	if err := ws.SaveTask(task.New("7", "b", "implement")); err != nil {
		t.Fatal(err)
	}

	id, err = ws.NextID()
	if err != nil {
		t.Fatalf("NextID() error = %v", err)
	}
	if id != "8" {
		t.Errorf("NextID() = %q, want 8 (max+1)", id)
	}
}

func TestNextIDCountsIssueRecords(t *testing.T) {
	ws := openWorkspace(t)

	synced := task.New("1", "a", "implement")
	if err := ws.SaveTask(synced); err != nil {
		t.Fatal(err)
	}
	if err := ws.SyncTask(synced, "github", 500); err != nil {
		t.Fatal(err)
	}

	id, err := ws.NextID()
	if err != nil {
		t.Fatalf("NextID() error = %v", err)
	}
	// Issue-numbered records share the counter namespace once synced, so a
	// fresh local id never collides with an adopted issue number.
	if id != "501" {
		t.Errorf("NextID() = %q, want 501", id)
	}
}

func TestSaveLoadLocalScheme(t *testing.T) {
	ws := openWorkspace(t)

	tk := task.New("3", "Fix parser", "implement")
	tk.SetInput("prompt", "hello")
	if err := ws.SaveTask(tk); err != nil {
		t.Fatalf("SaveTask() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(ws.TasksDir(), "T3.yaml")); err != nil {
		t.Errorf("local record T3.yaml missing: %v", err)
	}

	loaded, err := ws.LoadTask("3")
	if err != nil {
		t.Fatalf("LoadTask() error = %v", err)
	}
	if loaded.Title != "Fix parser" || loaded.Inputs["prompt"] != "hello" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoadTaskNotFound(t *testing.T) {
	ws := openWorkspace(t)
	_, err := ws.LoadTask("99")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("LoadTask() error = %v, want ErrTaskNotFound", err)
	}
}

func TestSyncRenamesRecord(t *testing.T) {
	ws := openWorkspace(t)

	tk := task.New("2", "Sync me", "implement")
	if err := ws.SaveTask(tk); err != nil {
		t.Fatal(err)
	}

	if err := ws.SyncTask(tk, "github", 77); err != nil {
		t.Fatalf("SyncTask() error = %v", err)
	}

	if tk.ID != "77" || tk.IssueNumber != 77 || tk.Tracker != "github" {
		t.Errorf("task after sync = %+v", tk)
	}
	if _, err := os.Stat(filepath.Join(ws.TasksDir(), "T2.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Error("pre-sync record T2.yaml still exists")
	}
	if _, err := os.Stat(filepath.Join(ws.TasksDir(), "77.yaml")); err != nil {
		t.Errorf("post-sync record 77.yaml missing: %v", err)
	}

	loaded, err := ws.LoadTask("77")
	if err != nil {
		t.Fatalf("LoadTask(77) error = %v", err)
	}
	if loaded.Title != "Sync me" {
		t.Errorf("loaded.Title = %q", loaded.Title)
	}
}

func TestSyncTwiceFails(t *testing.T) {
	ws := openWorkspace(t)

	tk := task.New("2", "x", "implement")
	if err := ws.SaveTask(tk); err != nil {
		t.Fatal(err)
	}
	if err := ws.SyncTask(tk, "github", 10); err != nil {
		t.Fatal(err)
	}
	if err := ws.SyncTask(tk, "github", 11); err == nil {
		t.Error("second SyncTask() succeeded, want error")
	}
}

func TestSyncInvalidIssueNumber(t *testing.T) {
	ws := openWorkspace(t)
	tk := task.New("2", "x", "implement")
	if err := ws.SyncTask(tk, "github", 0); err == nil {
		t.Error("SyncTask(0) succeeded, want error")
	}
}

func TestDeleteTaskBothSchemes(t *testing.T) {
	ws := openWorkspace(t)

	local := task.New("5", "local", "implement")
	if err := ws.SaveTask(local); err != nil {
		t.Fatal(err)
	}
	if err := ws.DeleteTask("5"); err != nil {
		t.Fatalf("DeleteTask(local) error = %v", err)
	}
	if _, err := ws.LoadTask("5"); !errors.Is(err, ErrTaskNotFound) {
		t.Error("deleted local task still loads")
	}

	synced := task.New("6", "synced", "implement")
	if err := ws.SaveTask(synced); err != nil {
		t.Fatal(err)
	}
	if err := ws.SyncTask(synced, "github", 60); err != nil {
		t.Fatal(err)
	}
	if err := ws.DeleteTask("60"); err != nil {
		t.Fatalf("DeleteTask(issue) error = %v", err)
	}

	if err := ws.DeleteTask("60"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("double delete error = %v, want ErrTaskNotFound", err)
	}
}

func TestListTasksSorted(t *testing.T) {
	ws := openWorkspace(t)

	older := task.New("1", "older", "implement")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := task.New("2", "newer", "implement")

	// Save newest first to prove ordering comes from CreatedAt, not scan
	// order.
	if err := ws.SaveTask(newer); err != nil {
		t.Fatal(err)
	}
	if err := ws.SaveTask(older); err != nil {
		t.Fatal(err)
	}

	tasks, err := ws.ListTasks()
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 2 || tasks[0].Title != "older" || tasks[1].Title != "newer" {
		t.Errorf("ListTasks() order wrong: %v", titles(tasks))
	}
}

func TestListTasksEmptyWorkspace(t *testing.T) {
	ws, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	tasks, err := ws.ListTasks()
	if err != nil {
		t.Fatalf("ListTasks() on uninitialized workspace error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("ListTasks() = %v, want empty", tasks)
	}
}

func titles(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, tk := range tasks {
		out[i] = tk.Title
	}
	return out
}
