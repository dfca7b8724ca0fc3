// Package testutil provides shared helpers for taktwerk tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// InitRepo creates a git repository with an initial commit in a temp
// directory and returns its path. Tests are skipped when git is missing.
func InitRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := runGit(dir, "init"); err != nil {
		t.Skipf("git not available: %v", err)
	}
	MustRunGit(t, dir, "config", "user.email", "test@example.com")
	MustRunGit(t, dir, "config", "user.name", "Test User")

	WriteFile(t, dir, "README.md", "# Test\n")
	MustRunGit(t, dir, "add", ".")
	MustRunGit(t, dir, "commit", "-m", "initial commit")
	MustRunGit(t, dir, "branch", "-M", "main")
	return dir
}

// InitBareRemote creates a bare repository and wires it as the "origin"
// remote of repo.
func InitBareRemote(t *testing.T, repo string) string {
	t.Helper()

	remote := t.TempDir()
	MustRunGit(t, remote, "init", "--bare")
	MustRunGit(t, repo, "remote", "add", "origin", remote)
	return remote
}

// WriteFile writes a file under dir, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// Commit stages everything and commits, returning the commit hash.
func Commit(t *testing.T, dir, message string) string {
	t.Helper()

	MustRunGit(t, dir, "add", ".")
	MustRunGit(t, dir, "commit", "-m", message)
	return strings.TrimSpace(RunGit(t, dir, "rev-parse", "HEAD"))
}

// RunGit runs a git command in dir and returns its stdout, failing the
// test on error.
func RunGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return string(out)
}

// MustRunGit runs a git command in dir, failing the test on error.
func MustRunGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	RunGit(t, dir, args...)
}

func runGit(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	return cmd.Run()
}
