package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// StubBinary places an executable shell script named name on a directory
// prepended to PATH for the duration of the test. The script body is raw
// shell; use it to fake agent CLIs in availability and invocation tests.
func StubBinary(t *testing.T, name, script string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell stubs are not supported on windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}
