// Package vcs provides the git operations behind taktwerk's task isolation.
//
// The Git type wraps the operations needed for task orchestration:
//   - Branch creation and deletion
//   - Worktree management for per-task isolation
//   - Diff, status and merge-conflict inspection
//   - Merge and push with structured failure reporting
//
// Git methods are safe for concurrent use; the type holds no mutable state
// beyond the resolved repository root.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Git provides git operations for a repository.
type Git struct {
	repoRoot string
}

// New creates a Git instance rooted at the repository containing path.
func New(path string) (*Git, error) {
	root, err := findRepoRoot(path)
	if err != nil {
		return nil, err
	}
	return &Git{repoRoot: root}, nil
}

// Root returns the repository root path.
func (g *Git) Root() string {
	return g.repoRoot
}

// IsRepo checks if the path is inside a git repository.
func IsRepo(path string) bool {
	_, err := findRepoRoot(path)
	return err == nil
}

func findRepoRoot(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	out, err := runGit(context.Background(), absPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}

	return strings.TrimSpace(out), nil
}

// CurrentBranch returns the current branch name.
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("get current branch: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// FileStatus represents one entry of git status --porcelain.
type FileStatus struct {
	Index   byte   // Status in index
	WorkDir byte   // Status in working directory
	Path    string // File path
}

// Status returns uncommitted changes for the given directory (the repo
// root when dir is empty).
func (g *Git) Status(ctx context.Context, dir string) ([]FileStatus, error) {
	if dir == "" {
		dir = g.repoRoot
	}
	out, err := runGit(ctx, dir, "status", "--porcelain", "-z")
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}

	if out == "" {
		return nil, nil
	}

	var files []FileStatus
	entries := strings.Split(strings.TrimSuffix(out, "\x00"), "\x00")
	for i := 0; i < len(entries); i++ {
		entry := entries[i]
		if len(entry) < 4 {
			continue
		}
		fs := FileStatus{
			Index:   entry[0],
			WorkDir: entry[1],
			Path:    strings.TrimSpace(entry[3:]),
		}
		files = append(files, fs)
		// Renames and copies carry the original path as an extra
		// NUL-terminated token; consume it so it never parses as its
		// own entry.
		if fs.Index == 'R' || fs.Index == 'C' || fs.WorkDir == 'R' || fs.WorkDir == 'C' {
			i++
		}
	}

	return files, nil
}

// HasChanges returns true if there are uncommitted changes in dir.
func (g *Git) HasChanges(ctx context.Context, dir string) (bool, error) {
	files, err := g.Status(ctx, dir)
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// AddAll stages all changes in dir.
func (g *Git) AddAll(ctx context.Context, dir string) error {
	if dir == "" {
		dir = g.repoRoot
	}
	if _, err := runGit(ctx, dir, "add", "-A"); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	return nil
}

// Commit creates a commit in dir and returns its hash.
func (g *Git) Commit(ctx context.Context, dir, message string) (string, error) {
	if dir == "" {
		dir = g.repoRoot
	}
	if _, err := runGit(ctx, dir, "commit", "-m", message); err != nil {
		return "", fmt.Errorf("git commit: %w", err)
	}

	out, err := runGit(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("get commit hash: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// RevParse resolves a git reference.
func (g *Git) RevParse(ctx context.Context, ref string) (string, error) {
	out, err := g.run(ctx, "rev-parse", ref)
	if err != nil {
		return "", fmt.Errorf("rev-parse %s: %w", ref, err)
	}
	return strings.TrimSpace(out), nil
}

// RecentCommits returns the latest n one-line commit subjects on ref.
func (g *Git) RecentCommits(ctx context.Context, ref string, n int) ([]string, error) {
	out, err := g.run(ctx, "log", "--format=%s", fmt.Sprintf("-%d", n), ref)
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}
	var subjects []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line != "" {
			subjects = append(subjects, line)
		}
	}
	return subjects, nil
}

// RemoteURL returns the URL for a remote.
func (g *Git) RemoteURL(ctx context.Context, name string) (string, error) {
	out, err := g.run(ctx, "remote", "get-url", name)
	if err != nil {
		return "", fmt.Errorf("get remote URL %s: %w", name, err)
	}
	return strings.TrimSpace(out), nil
}

// run executes a git command in the repo root.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	return runGit(ctx, g.repoRoot, args...)
}

// runGit executes a git command in dir, returning stdout. Failures carry
// the trimmed stderr text.
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		return "", fmt.Errorf("%s", errMsg)
	}

	return stdout.String(), nil
}
