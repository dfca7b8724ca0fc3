package vcs

import (
	"context"
	"testing"

	"github.com/valksor/go-taktwerk/internal/testutil"
)

func TestNewOutsideRepo(t *testing.T) {
	if _, err := New(t.TempDir()); err == nil {
		t.Error("New() outside a repo succeeded, want error")
	}
}

func TestIsRepo(t *testing.T) {
	g := newTestGit(t)
	if !IsRepo(g.Root()) {
		t.Error("IsRepo(repo root) = false")
	}
	if IsRepo(t.TempDir()) {
		t.Error("IsRepo(empty dir) = true")
	}
}

func TestStatusAndHasChanges(t *testing.T) {
	g := newTestGit(t)
	ctx := context.Background()

	dirty, err := g.HasChanges(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if dirty {
		t.Error("fresh repo reports changes")
	}

	testutil.WriteFile(t, g.Root(), "a.txt", "hello\n")
	files, err := g.Status(ctx, "")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if len(files) != 1 || files[0].Path != "a.txt" {
		t.Fatalf("Status() = %+v, want one entry for a.txt", files)
	}
	if files[0].Index != '?' || files[0].WorkDir != '?' {
		t.Errorf("untracked codes = %c%c, want ??", files[0].Index, files[0].WorkDir)
	}
}

func TestStatusRenameSingleEntry(t *testing.T) {
	g := newTestGit(t)
	ctx := context.Background()

	testutil.WriteFile(t, g.Root(), "a.txt", "hello\n")
	testutil.Commit(t, g.Root(), "Add a.txt")
	testutil.MustRunGit(t, g.Root(), "mv", "a.txt", "b.txt")

	// A staged rename carries the original path as an extra token in the
	// porcelain output; it must not surface as its own entry.
	files, err := g.Status(ctx, "")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("Status() = %+v, want exactly one entry for the rename", files)
	}
	if files[0].Index != 'R' {
		t.Errorf("Index = %c, want R", files[0].Index)
	}
	if files[0].Path != "b.txt" {
		t.Errorf("Path = %q, want b.txt", files[0].Path)
	}
}

func TestAddAllAndCommit(t *testing.T) {
	g := newTestGit(t)
	ctx := context.Background()

	testutil.WriteFile(t, g.Root(), "a.txt", "hello\n")
	if err := g.AddAll(ctx, ""); err != nil {
		t.Fatalf("AddAll() error = %v", err)
	}

	hash, err := g.Commit(ctx, "", "add a.txt")
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if len(hash) != 40 {
		t.Errorf("commit hash = %q, want 40 hex chars", hash)
	}

	subjects, err := g.RecentCommits(ctx, "HEAD", 2)
	if err != nil {
		t.Fatalf("RecentCommits() error = %v", err)
	}
	if len(subjects) != 2 || subjects[0] != "add a.txt" {
		t.Errorf("RecentCommits() = %v", subjects)
	}
}

func TestCurrentBranch(t *testing.T) {
	g := newTestGit(t)
	branch, err := g.CurrentBranch(context.Background())
	if err != nil {
		t.Fatalf("CurrentBranch() error = %v", err)
	}
	if branch != "main" {
		t.Errorf("CurrentBranch() = %q, want main", branch)
	}
}

func TestRemoteURL(t *testing.T) {
	g := newTestGit(t)
	remote := testutil.InitBareRemote(t, g.Root())

	url, err := g.RemoteURL(context.Background(), "origin")
	if err != nil {
		t.Fatalf("RemoteURL() error = %v", err)
	}
	if url != remote {
		t.Errorf("RemoteURL() = %q, want %q", url, remote)
	}
}
