package vcs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// CreateBranch creates a branch without checking it out.
func (g *Git) CreateBranch(ctx context.Context, name, base string) error {
	args := []string{"branch", name}
	if base != "" {
		args = append(args, base)
	}
	if _, err := g.run(ctx, args...); err != nil {
		return newGitError("branch", args, err.Error(), nil)
	}
	return nil
}

// DeleteBranch deletes a branch.
func (g *Git) DeleteBranch(ctx context.Context, name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	if _, err := g.run(ctx, "branch", flag, name); err != nil {
		return newGitError("branch delete", []string{name}, err.Error(), nil)
	}
	return nil
}

// BranchExists checks if a local branch exists.
func (g *Git) BranchExists(ctx context.Context, name string) bool {
	_, err := g.run(ctx, "rev-parse", "--verify", "refs/heads/"+name)
	return err == nil
}

// BaseBranch finds the base branch (usually main or master).
func (g *Git) BaseBranch(ctx context.Context) (string, error) {
	for _, name := range []string{"main", "master", "develop"} {
		if g.BranchExists(ctx, name) {
			return name, nil
		}
	}
	// Fall back to the current branch.
	return g.CurrentBranch(ctx)
}

// HasUnmergedCommits reports whether src has commits unreachable from
// target. This decides whether a merge or push is meaningful at all.
func (g *Git) HasUnmergedCommits(ctx context.Context, src, target string) (bool, error) {
	out, err := g.run(ctx, "rev-list", "--count", target+".."+src)
	if err != nil {
		return false, newGitError("rev-list", []string{target + ".." + src}, err.Error(), nil)
	}
	count, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return false, fmt.Errorf("parse rev-list count: %w", err)
	}
	return count > 0, nil
}

// MergeBranch merges src into the branch checked out in dir with a
// non-fast-forward merge. On conflict the repository is left mid-merge so
// callers can inspect and resolve; use AbortMerge or ContinueMerge.
func (g *Git) MergeBranch(ctx context.Context, dir, src, message string) error {
	if dir == "" {
		dir = g.repoRoot
	}
	args := []string{"merge", "--no-ff", src}
	if message != "" {
		args = append(args, "-m", message)
	}
	if _, err := runGit(ctx, dir, args...); err != nil {
		// Conflict markers go to stdout, so stderr classification alone is
		// not enough; check the unmerged paths directly.
		if conflicts, cerr := g.MergeConflicts(ctx, dir); cerr == nil && len(conflicts) > 0 {
			return newGitError("merge", args, err.Error(), ErrMergeConflict)
		}
		return newGitError("merge", args, err.Error(), nil)
	}
	return nil
}

// AbortMerge aborts an in-progress merge.
func (g *Git) AbortMerge(ctx context.Context, dir string) error {
	if dir == "" {
		dir = g.repoRoot
	}
	if _, err := runGit(ctx, dir, "merge", "--abort"); err != nil {
		return newGitError("merge abort", nil, err.Error(), nil)
	}
	return nil
}

// ContinueMerge concludes a merge after conflicts were resolved and staged.
func (g *Git) ContinueMerge(ctx context.Context, dir string) error {
	if dir == "" {
		dir = g.repoRoot
	}
	// --no-edit keeps the prepared merge message without opening an editor.
	if _, err := runGit(ctx, dir, "-c", "core.editor=true", "merge", "--continue"); err != nil {
		return newGitError("merge continue", nil, err.Error(), nil)
	}
	return nil
}

// PushOptions configures a push.
type PushOptions struct {
	SetUpstream bool
}

// Push pushes branch to the remote. Without SetUpstream it relies on the
// branch's configured upstream; a failure caused by a missing upstream
// unwraps to ErrNoUpstream, signaling the caller to retry with SetUpstream.
func (g *Git) Push(ctx context.Context, remote, branch string, opts PushOptions) error {
	if !opts.SetUpstream {
		if _, err := g.run(ctx, "rev-parse", "--abbrev-ref", branch+"@{upstream}"); err != nil {
			return newGitError("push", []string{remote, branch},
				fmt.Sprintf("branch %q has no upstream branch", branch), ErrNoUpstream)
		}
	}

	args := []string{"push"}
	if opts.SetUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, branch)
	if _, err := g.run(ctx, args...); err != nil {
		return newGitError("push", args, err.Error(), nil)
	}
	return nil
}
