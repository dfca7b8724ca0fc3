package vcs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for expected git failure modes. Callers branch on these
// with errors.Is instead of scraping message text.
var (
	// ErrNoUpstream marks a push that failed because the branch has no
	// upstream; retry with SetUpstream.
	ErrNoUpstream = errors.New("branch has no upstream")

	// ErrMergeConflict marks a merge that stopped on conflicts. The repo is
	// left mid-merge so the conflicts can be inspected and resolved.
	ErrMergeConflict = errors.New("merge conflict")

	// ErrNothingToMerge marks a merge with no commits to bring in.
	ErrNothingToMerge = errors.New("nothing to merge")

	// ErrWorktreeMissing marks a context whose worktree was removed
	// out-of-band. Taktwerk never silently recreates such a workspace.
	ErrWorktreeMissing = errors.New("worktree missing")
)

// GitError is a structured failure from a git invocation. It carries the
// operation, the raw tool output, and optionally a sentinel cause.
type GitError struct {
	Op     string   // logical operation, e.g. "push", "merge"
	Args   []string // git arguments
	Output string   // trimmed stderr from git
	Err    error    // sentinel cause, if classified
}

func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s", e.Op)
	if e.Output != "" {
		msg += ": " + e.Output
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GitError) Unwrap() error {
	return e.Err
}

// newGitError builds a GitError, classifying well-known stderr signatures
// into sentinel causes.
func newGitError(op string, args []string, output string, cause error) *GitError {
	ge := &GitError{
		Op:     op,
		Args:   args,
		Output: strings.TrimSpace(output),
		Err:    cause,
	}
	if ge.Err == nil {
		ge.Err = classify(ge.Output)
	}
	return ge
}

func classify(output string) error {
	switch {
	case strings.Contains(output, "has no upstream branch"),
		strings.Contains(output, "no upstream configured"):
		return ErrNoUpstream
	case strings.Contains(output, "CONFLICT"),
		strings.Contains(output, "Automatic merge failed"):
		return ErrMergeConflict
	}
	return nil
}
