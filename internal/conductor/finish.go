package conductor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/valksor/go-taktwerk/internal/agent"
	"github.com/valksor/go-taktwerk/internal/log"
	"github.com/valksor/go-taktwerk/internal/task"
	"github.com/valksor/go-taktwerk/internal/vcs"
)

// FinishMode selects how a completed task's work leaves its branch.
type FinishMode string

const (
	FinishMerge FinishMode = "merge"
	FinishPush  FinishMode = "push"
)

// FinishOptions configures Finish.
type FinishOptions struct {
	Mode FinishMode

	// ResolveConflicts lets the task's agent attempt conflict resolution
	// before giving up on a conflicted merge.
	ResolveConflicts bool

	// Cleanup destroys the task's worktree and branch after a merge.
	Cleanup bool
}

// Finish integrates a completed task's work: merge its branch into the
// base branch, or push it to the remote. Merge and push may both happen
// over time, in either order; the lifecycle allows MERGED and PUSHED to
// alternate.
func (c *Conductor) Finish(ctx context.Context, ref string, opts FinishOptions) (*task.Task, error) {
	t, err := c.ws.LoadTask(ref)
	if err != nil {
		return nil, err
	}
	if !t.IsTerminal() {
		return nil, fmt.Errorf("task %s is %s, finish requires a completed task", t.ID, t.Status)
	}

	switch opts.Mode {
	case FinishMerge:
		err = c.merge(ctx, t, opts)
	case FinishPush:
		err = c.push(ctx, t)
	default:
		return nil, fmt.Errorf("unknown finish mode: %q", opts.Mode)
	}
	if err != nil {
		return nil, err
	}

	if err := c.ws.SaveTask(t); err != nil {
		return nil, err
	}
	return t, nil
}

// merge merges the task branch into the base branch checked out at the
// repository root. A conflicted merge is either agent-resolved or aborted;
// the base branch is never left mid-merge.
func (c *Conductor) merge(ctx context.Context, t *task.Task, opts FinishOptions) error {
	branch := c.isolator.BranchName(t.Key(), t.Title)

	base := c.cfg.Git.BaseBranch
	if base == "" {
		detected, err := c.git.BaseBranch(ctx)
		if err != nil {
			return err
		}
		base = detected
	}

	current, err := c.git.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	if current != base {
		return fmt.Errorf("repository is on %q, check out %q before merging", current, base)
	}

	unmerged, err := c.git.HasUnmergedCommits(ctx, branch, base)
	if err != nil {
		return err
	}
	if !unmerged {
		return fmt.Errorf("branch %s: %w", branch, vcs.ErrNothingToMerge)
	}

	message := fmt.Sprintf("Merge %s: %s", branch, t.Title)
	mergeErr := c.git.MergeBranch(ctx, "", branch, message)
	if mergeErr != nil {
		if !errors.Is(mergeErr, vcs.ErrMergeConflict) {
			return mergeErr
		}
		if !opts.ResolveConflicts {
			if aerr := c.git.AbortMerge(ctx, ""); aerr != nil {
				return aerr
			}
			return mergeErr
		}
		if err := c.resolveConflicts(ctx, t); err != nil {
			if aerr := c.git.AbortMerge(ctx, ""); aerr != nil {
				log.Error("merge abort failed", log.Err(aerr))
			}
			return err
		}
	}

	if err := t.Transition(task.StatusMerged); err != nil {
		return err
	}
	log.Info("task merged", log.Task(t.ID), "base", base)

	if opts.Cleanup {
		ec, err := c.isolator.EnsureContext(ctx, t.Key(), t.Title)
		if err == nil {
			if err := c.isolator.DestroyContext(ctx, ec); err != nil {
				log.Warn("cleanup failed", log.Task(t.ID), log.Err(err))
			}
		}
	}
	return nil
}

// resolveConflicts asks the task's agent to resolve each conflicted file,
// then concludes the merge. Any file the agent cannot resolve fails the
// whole attempt.
func (c *Conductor) resolveConflicts(ctx context.Context, t *task.Task) error {
	conflicts, err := c.git.MergeConflicts(ctx, "")
	if err != nil {
		return err
	}
	if len(conflicts) == 0 {
		return c.git.ContinueMerge(ctx, "")
	}

	a, err := c.agentFor(t.Agent, "", c.git.Root())
	if err != nil {
		return err
	}

	diffContext, _ := c.git.Diff(ctx, "", vcs.DiffOptions{})
	for _, path := range conflicts {
		full := filepath.Join(c.git.Root(), path)
		content, err := os.ReadFile(full)
		if err != nil {
			return fmt.Errorf("read conflicted file %s: %w", path, err)
		}

		resolved := agent.ResolveMergeConflicts(ctx, a, path, diffContext, string(content))
		if resolved == "" {
			return fmt.Errorf("could not resolve conflict in %s: %w", path, vcs.ErrMergeConflict)
		}
		if err := os.WriteFile(full, []byte(resolved), 0o644); err != nil {
			return fmt.Errorf("write resolved file %s: %w", path, err)
		}
		log.Info("conflict resolved", log.Task(t.ID), "file", path)
	}

	if err := c.git.AddAll(ctx, ""); err != nil {
		return err
	}
	return c.git.ContinueMerge(ctx, "")
}

// push pushes the task branch to the configured remote, setting the
// upstream on first push.
func (c *Conductor) push(ctx context.Context, t *task.Task) error {
	branch := c.isolator.BranchName(t.Key(), t.Title)
	remote := c.cfg.Git.Remote

	err := c.git.Push(ctx, remote, branch, vcs.PushOptions{})
	if errors.Is(err, vcs.ErrNoUpstream) {
		err = c.git.Push(ctx, remote, branch, vcs.PushOptions{SetUpstream: true})
	}
	if err != nil {
		return err
	}

	if err := t.Transition(task.StatusPushed); err != nil {
		return err
	}
	log.Info("task pushed", log.Task(t.ID), "remote", remote, "branch", branch)
	return nil
}
