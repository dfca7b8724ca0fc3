package vcs

import (
	"context"
	"fmt"
	"os"
)

// Context is the isolated execution context bound to exactly one task: a
// dedicated branch plus a dedicated worktree, with the credential mounts
// and env var names resolved for the task's agent.
type Context struct {
	TaskID       string
	Branch       string
	WorktreePath string
	BaseBranch   string
	SandboxID    string   // optional container/sandbox identifier
	Mounts       []string // credential paths exposed inside the sandbox
	EnvVars      []string // env var names forwarded to the agent process
}

// Isolator creates and destroys per-task execution contexts.
type Isolator struct {
	git    *Git
	prefix string // branch name prefix, e.g. "takt"
}

// NewIsolator creates an Isolator over a repository.
func NewIsolator(git *Git, branchPrefix string) *Isolator {
	if branchPrefix == "" {
		branchPrefix = "takt"
	}
	return &Isolator{git: git, prefix: branchPrefix}
}

// slugMaxLen caps the title slug appended to branch names.
const slugMaxLen = 40

// BranchName derives the deterministic branch name for a task. The name is
// a pure function of task identity and title so two invocations for the
// same task always collide on the same branch instead of fabricating a
// second one.
func (i *Isolator) BranchName(taskID, title string) string {
	branch := i.prefix + "/" + taskID
	if slug := Slugify(title, slugMaxLen); slug != "" {
		branch += "-" + slug
	}
	return branch
}

// CreateContext creates (or attaches to) the isolated context for a task.
// If the branch already exists it is attached, not recreated; the worktree
// lock semantics of git guarantee a branch is never checked out in two
// worktrees at once.
func (i *Isolator) CreateContext(ctx context.Context, taskID, title, baseBranch string) (*Context, error) {
	branch := i.BranchName(taskID, title)
	path := i.git.WorktreePath(taskID)

	if baseBranch == "" {
		detected, err := i.git.BaseBranch(ctx)
		if err != nil {
			return nil, fmt.Errorf("detect base branch: %w", err)
		}
		baseBranch = detected
	}

	ec := &Context{
		TaskID:       taskID,
		Branch:       branch,
		WorktreePath: path,
		BaseBranch:   baseBranch,
	}

	if existing, ok := i.git.WorktreeForBranch(ctx, branch); ok {
		// Already isolated; hand back the same context.
		ec.WorktreePath = existing.Path
		return ec, nil
	}

	if i.git.BranchExists(ctx, branch) {
		if err := i.git.AddWorktree(ctx, path, branch); err != nil {
			return nil, err
		}
		return ec, nil
	}

	if err := i.git.AddWorktreeNewBranch(ctx, path, branch, baseBranch); err != nil {
		return nil, err
	}
	return ec, nil
}

// EnsureContext returns the existing context for a task. A worktree that
// was deleted out-of-band is a hard failure; taktwerk never fabricates a
// fresh workspace for a task whose workspace disappeared externally.
func (i *Isolator) EnsureContext(ctx context.Context, taskID, title string) (*Context, error) {
	branch := i.BranchName(taskID, title)

	wt, ok := i.git.WorktreeForBranch(ctx, branch)
	if !ok {
		return nil, newGitError("worktree", []string{branch},
			fmt.Sprintf("no worktree for branch %q", branch), ErrWorktreeMissing)
	}
	if _, err := os.Stat(wt.Path); err != nil {
		return nil, newGitError("worktree", []string{wt.Path},
			fmt.Sprintf("worktree directory %q was removed", wt.Path), ErrWorktreeMissing)
	}

	return &Context{
		TaskID:       taskID,
		Branch:       branch,
		WorktreePath: wt.Path,
	}, nil
}

// DestroyContext removes a task's worktree and branch. The worktree is
// force-removed; the branch delete is forced because task branches are
// routinely deleted without being merged.
func (i *Isolator) DestroyContext(ctx context.Context, ec *Context) error {
	if ec == nil {
		panic("vcs: DestroyContext on nil context")
	}

	if _, err := os.Stat(ec.WorktreePath); err == nil {
		if err := i.git.RemoveWorktree(ctx, ec.WorktreePath, true); err != nil {
			return err
		}
	}
	_ = i.git.PruneWorktrees(ctx)

	if i.git.BranchExists(ctx, ec.Branch) {
		if err := i.git.DeleteBranch(ctx, ec.Branch, true); err != nil {
			return err
		}
	}
	return nil
}
