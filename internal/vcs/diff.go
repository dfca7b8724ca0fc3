package vcs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiffOptions configures Diff.
type DiffOptions struct {
	OnlyFiles        bool   // name-only output
	IncludeUntracked bool   // append untracked files
	Against          string // ref to diff against, empty = working tree vs index+HEAD
}

// Diff returns the diff for the worktree at dir. git diff omits untracked
// content, so when IncludeUntracked is set the untracked files are
// enumerated separately and appended: as bare names in OnlyFiles mode, or
// as diff-against-empty entries otherwise.
func (g *Git) Diff(ctx context.Context, dir string, opts DiffOptions) (string, error) {
	if dir == "" {
		dir = g.repoRoot
	}

	args := []string{"diff"}
	if opts.OnlyFiles {
		args = append(args, "--name-only")
	}
	if opts.Against != "" {
		args = append(args, opts.Against)
	}

	out, err := runGit(ctx, dir, args...)
	if err != nil {
		return "", newGitError("diff", args, err.Error(), nil)
	}

	if !opts.IncludeUntracked {
		return out, nil
	}

	untracked, err := g.UntrackedFiles(ctx, dir)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(out)
	for _, path := range untracked {
		if opts.OnlyFiles {
			sb.WriteString(path)
			sb.WriteString("\n")
			continue
		}
		// git diff --no-index exits nonzero whenever the file differs from
		// /dev/null, so the diff-against-empty entry is synthesized here.
		sb.WriteString(syntheticDiff(dir, path))
	}

	return sb.String(), nil
}

// UntrackedFiles enumerates untracked real files (never directories) in dir.
func (g *Git) UntrackedFiles(ctx context.Context, dir string) ([]string, error) {
	if dir == "" {
		dir = g.repoRoot
	}
	out, err := runGit(ctx, dir, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, newGitError("ls-files", nil, err.Error(), nil)
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		// ls-files reports files only, but guard against anything else.
		info, statErr := os.Stat(filepath.Join(dir, line))
		if statErr != nil || info.IsDir() {
			continue
		}
		files = append(files, line)
	}
	return files, nil
}

// syntheticDiff builds a minimal unified diff of path against nothing.
func syntheticDiff(dir, path string) string {
	data, err := os.ReadFile(filepath.Join(dir, path))
	if err != nil {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")

	var sb strings.Builder
	fmt.Fprintf(&sb, "diff --git a/%s b/%s\n", path, path)
	sb.WriteString("new file mode 100644\n")
	fmt.Fprintf(&sb, "--- /dev/null\n+++ b/%s\n", path)
	fmt.Fprintf(&sb, "@@ -0,0 +1,%d @@\n", len(lines))
	for _, line := range lines {
		sb.WriteString("+")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// conflictCodes are the porcelain XY pairs that mark an unmerged path:
// both-deleted, added-by-us/them, deleted-by-us/them, both-added and
// both-modified.
var conflictCodes = map[string]bool{
	"DD": true, "AU": true, "UD": true,
	"UA": true, "DU": true, "AA": true, "UU": true,
}

// MergeConflicts returns the paths in conflict in dir. Empty means clean.
func (g *Git) MergeConflicts(ctx context.Context, dir string) ([]string, error) {
	files, err := g.Status(ctx, dir)
	if err != nil {
		return nil, err
	}

	var conflicts []string
	for _, f := range files {
		if conflictCodes[string([]byte{f.Index, f.WorkDir})] {
			conflicts = append(conflicts, f.Path)
		}
	}
	return conflicts, nil
}
