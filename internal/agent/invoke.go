package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// InvokeSpec describes one non-interactive provider invocation.
type InvokeSpec struct {
	Provider string
	Binary   string
	Args     []string
	Stdin    string   // piped to the process when non-empty
	Dir      string   // working directory
	Env      []string // allow-listed KEY=VALUE entries, typically ForwardEnv output
}

// passthroughEnv are the baseline variables every provider process needs
// regardless of its descriptor allowlist.
var passthroughEnv = []string{"PATH", "HOME", "USER", "SHELL", "TERM", "LANG", "LC_ALL", "TMPDIR"}

func baseEnv() []string {
	var env []string
	for _, name := range passthroughEnv {
		if v, ok := os.LookupEnv(name); ok {
			env = append(env, name+"="+v)
		}
	}
	return env
}

// RunBinary spawns the provider process, waits for it, and returns its
// stdout. Each spawn is a blocking suspension point for the calling step;
// cancellation of ctx kills the process. The child does not inherit the
// full environment: it sees the passthrough baseline plus spec.Env, so
// credentials for other tools never leak into an agent process.
func RunBinary(ctx context.Context, spec InvokeSpec) (string, error) {
	cmd := exec.CommandContext(ctx, spec.Binary, spec.Args...)
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}
	cmd.Env = append(baseEnv(), spec.Env...)
	if spec.Stdin != "" {
		cmd.Stdin = strings.NewReader(spec.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		invErr := &InvocationError{
			Provider: spec.Provider,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			invErr.ExitCode = exitErr.ExitCode()
		}
		return "", invErr
	}

	return stdout.String(), nil
}

var versionRe = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// CheckBinary looks up the provider binary, runs its --version probe, and
// optionally gates on a minimum version. All failures surface as a
// MissingToolError.
func CheckBinary(provider, binary, minVersion string) error {
	path, err := exec.LookPath(binary)
	if err != nil {
		return &MissingToolError{Provider: provider, Binary: binary, Err: err}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if err != nil {
		return &MissingToolError{Provider: provider, Binary: binary,
			Err: fmt.Errorf("version probe failed: %w", err)}
	}

	if minVersion == "" {
		return nil
	}

	probed := versionRe.FindString(string(out))
	if probed == "" {
		// Probe ran but printed nothing parseable; the tool exists.
		return nil
	}
	if semver.Compare(canonical(probed), canonical(minVersion)) < 0 {
		return &MissingToolError{Provider: provider, Binary: binary,
			Err: fmt.Errorf("version %s is below minimum %s", probed, minVersion)}
	}
	return nil
}

// canonical normalizes a version string for x/mod/semver comparison.
func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	// semver requires major.minor.patch
	if strings.Count(v, ".") == 1 {
		v += ".0"
	}
	return v
}
