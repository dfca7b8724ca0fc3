package vcs

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/valksor/go-taktwerk/internal/testutil"
)

func newTestGit(t *testing.T) *Git {
	t.Helper()
	dir := testutil.InitRepo(t)
	g, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

func TestBranchName(t *testing.T) {
	iso := NewIsolator(nil, "takt")
	if got := iso.BranchName("7", ""); got != "takt/7" {
		t.Errorf("BranchName(7) = %q, want takt/7", got)
	}
	if got := iso.BranchName("7", "Fix login timeout"); got != "takt/7-fix-login-timeout" {
		t.Errorf("BranchName with title = %q, want takt/7-fix-login-timeout", got)
	}

	// The same task identity always maps to the same branch.
	again := iso.BranchName("7", "Fix login timeout")
	if again != "takt/7-fix-login-timeout" {
		t.Errorf("BranchName not deterministic: %q", again)
	}

	iso = NewIsolator(nil, "")
	if got := iso.BranchName("7", ""); got != "takt/7" {
		t.Errorf("BranchName with empty prefix = %q, want takt/7", got)
	}
}

func TestCreateContext(t *testing.T) {
	g := newTestGit(t)
	iso := NewIsolator(g, "takt")
	ctx := context.Background()

	ec, err := iso.CreateContext(ctx, "1", "", "")
	if err != nil {
		t.Fatalf("CreateContext() error = %v", err)
	}
	if ec.Branch != "takt/1" {
		t.Errorf("Branch = %q, want takt/1", ec.Branch)
	}
	if ec.BaseBranch != "main" {
		t.Errorf("BaseBranch = %q, want main", ec.BaseBranch)
	}
	if _, err := os.Stat(ec.WorktreePath); err != nil {
		t.Errorf("worktree directory missing: %v", err)
	}
	if !g.BranchExists(ctx, "takt/1") {
		t.Error("branch takt/1 not created")
	}
}

func TestCreateContextSluggedBranch(t *testing.T) {
	g := newTestGit(t)
	iso := NewIsolator(g, "takt")
	ctx := context.Background()

	ec, err := iso.CreateContext(ctx, "3", "Überschrift für die Änderung", "")
	if err != nil {
		t.Fatalf("CreateContext() error = %v", err)
	}
	want := "takt/3-uberschrift-fur-die-anderung"
	if ec.Branch != want {
		t.Errorf("Branch = %q, want %q", ec.Branch, want)
	}
	if !g.BranchExists(ctx, want) {
		t.Errorf("branch %s not created", want)
	}

	// The title-derived branch is still found on later attach.
	if _, err := iso.EnsureContext(ctx, "3", "Überschrift für die Änderung"); err != nil {
		t.Errorf("EnsureContext() error = %v", err)
	}
}

func TestCreateContextAttachesExisting(t *testing.T) {
	g := newTestGit(t)
	iso := NewIsolator(g, "takt")
	ctx := context.Background()

	first, err := iso.CreateContext(ctx, "1", "", "")
	if err != nil {
		t.Fatalf("first CreateContext() error = %v", err)
	}

	// Same task again: attach, never a second branch or worktree.
	second, err := iso.CreateContext(ctx, "1", "", "")
	if err != nil {
		t.Fatalf("second CreateContext() error = %v", err)
	}
	if second.Branch != first.Branch || second.WorktreePath != first.WorktreePath {
		t.Errorf("second context differs: %+v vs %+v", second, first)
	}

	wts, err := g.ListWorktrees(ctx)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, wt := range wts {
		if wt.Branch == "takt/1" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("worktrees on takt/1 = %d, want 1", count)
	}
}

func TestCreateContextReattachesAfterWorktreeRemove(t *testing.T) {
	g := newTestGit(t)
	iso := NewIsolator(g, "takt")
	ctx := context.Background()

	ec, err := iso.CreateContext(ctx, "1", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := g.RemoveWorktree(ctx, ec.WorktreePath, true); err != nil {
		t.Fatal(err)
	}

	// Branch survives; CreateContext reattaches it in a worktree.
	again, err := iso.CreateContext(ctx, "1", "", "")
	if err != nil {
		t.Fatalf("CreateContext() after worktree remove error = %v", err)
	}
	if _, err := os.Stat(again.WorktreePath); err != nil {
		t.Errorf("reattached worktree missing: %v", err)
	}
}

func TestEnsureContextMissingTask(t *testing.T) {
	g := newTestGit(t)
	iso := NewIsolator(g, "takt")

	_, err := iso.EnsureContext(context.Background(), "9", "")
	if !errors.Is(err, ErrWorktreeMissing) {
		t.Errorf("EnsureContext() error = %v, want ErrWorktreeMissing", err)
	}
}

func TestEnsureContextDeletedOutOfBand(t *testing.T) {
	g := newTestGit(t)
	iso := NewIsolator(g, "takt")
	ctx := context.Background()

	ec, err := iso.CreateContext(ctx, "1", "", "")
	if err != nil {
		t.Fatal(err)
	}

	// Simulate rm -rf of the worktree directory without telling git.
	if err := os.RemoveAll(ec.WorktreePath); err != nil {
		t.Fatal(err)
	}

	_, err = iso.EnsureContext(ctx, "1", "")
	if !errors.Is(err, ErrWorktreeMissing) {
		t.Errorf("EnsureContext() error = %v, want ErrWorktreeMissing", err)
	}
}

func TestDestroyContext(t *testing.T) {
	g := newTestGit(t)
	iso := NewIsolator(g, "takt")
	ctx := context.Background()

	ec, err := iso.CreateContext(ctx, "1", "", "")
	if err != nil {
		t.Fatal(err)
	}

	// Uncommitted work must not block destruction.
	testutil.WriteFile(t, ec.WorktreePath, "scratch.txt", "wip")

	if err := iso.DestroyContext(ctx, ec); err != nil {
		t.Fatalf("DestroyContext() error = %v", err)
	}
	if _, err := os.Stat(ec.WorktreePath); !errors.Is(err, os.ErrNotExist) {
		t.Error("worktree directory still exists")
	}
	if g.BranchExists(ctx, ec.Branch) {
		t.Error("branch still exists")
	}
}

func TestDestroyContextNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("DestroyContext(nil) did not panic")
		}
	}()
	iso := NewIsolator(nil, "takt")
	_ = iso.DestroyContext(context.Background(), nil)
}
