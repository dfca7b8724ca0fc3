package vcs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Worktree represents a git worktree.
type Worktree struct {
	Path   string // Absolute path to worktree
	Branch string // Branch checked out in worktree
	Commit string // HEAD commit
	Main   bool   // Is this the main worktree
}

// ListWorktrees returns all worktrees in the repository.
func (g *Git) ListWorktrees(ctx context.Context) ([]Worktree, error) {
	out, err := g.run(ctx, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, newGitError("worktree list", nil, err.Error(), nil)
	}

	var worktrees []Worktree
	var current Worktree

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if current.Path != "" {
				worktrees = append(worktrees, current)
				current = Worktree{}
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "worktree "):
			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "HEAD "):
			current.Commit = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			// Branch is refs/heads/name
			branch := strings.TrimPrefix(line, "branch ")
			current.Branch = strings.TrimPrefix(branch, "refs/heads/")
		}
	}
	if current.Path != "" {
		worktrees = append(worktrees, current)
	}

	if len(worktrees) > 0 {
		worktrees[0].Main = true
	}

	return worktrees, nil
}

// AddWorktree attaches an existing branch at path.
func (g *Git) AddWorktree(ctx context.Context, path, branch string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	args := []string{"worktree", "add", absPath, branch}
	if _, err := g.run(ctx, args...); err != nil {
		return newGitError("worktree add", args, err.Error(), nil)
	}
	return nil
}

// AddWorktreeNewBranch creates a worktree with a new branch off base.
func (g *Git) AddWorktreeNewBranch(ctx context.Context, path, branch, base string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	args := []string{"worktree", "add", "-b", branch, absPath}
	if base != "" {
		args = append(args, base)
	}
	if _, err := g.run(ctx, args...); err != nil {
		return newGitError("worktree add", args, err.Error(), nil)
	}
	return nil
}

// RemoveWorktree removes a worktree.
func (g *Git) RemoveWorktree(ctx context.Context, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	if _, err := g.run(ctx, args...); err != nil {
		return newGitError("worktree remove", args, err.Error(), nil)
	}
	return nil
}

// PruneWorktrees removes stale worktree bookkeeping.
func (g *Git) PruneWorktrees(ctx context.Context) error {
	_, err := g.run(ctx, "worktree", "prune")
	return err
}

// WorktreeForBranch finds the worktree that has branch checked out.
func (g *Git) WorktreeForBranch(ctx context.Context, branch string) (*Worktree, bool) {
	worktrees, err := g.ListWorktrees(ctx)
	if err != nil {
		return nil, false
	}
	for _, wt := range worktrees {
		if wt.Branch == branch {
			return &wt, true
		}
	}
	return nil, false
}

// WorktreePath returns the scratch path for a task's worktree. Worktrees
// live as siblings of the main repo: ../<repo>-worktrees/<task-id>.
func (g *Git) WorktreePath(taskID string) string {
	repoName := filepath.Base(g.repoRoot)
	parent := filepath.Dir(g.repoRoot)
	return filepath.Join(parent, repoName+"-worktrees", taskID)
}
