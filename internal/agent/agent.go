// Package agent presents one capability contract over N interchangeable
// external AI-agent executables.
//
// Provider differences are isolated to four axes: the exact non-interactive
// invocation shape, native versus prompt-coerced JSON output, which host
// credential files are exposed inside a sandbox, and which env var names
// forward to the process. Everything above that (task expansion, commit
// message generation, conflict resolution, input extraction) is generic
// over the Agent interface and degrades to a zero result on failure;
// callers treat that as "undetermined, proceed with fallback".
package agent

import (
	"context"
	"fmt"
)

// Agent is the uniform contract over one external AI-agent executable.
type Agent interface {
	// Name returns the provider id.
	Name() string

	// CheckAvailable version-probes the provider's executable. A missing
	// or broken binary yields a MissingToolError, never a silent pass.
	CheckAvailable() error

	// Invoke runs the provider non-interactively with the prompt and
	// returns its raw output. With wantJSON the provider is asked for
	// structured JSON output, natively or by prompt coercion. A process
	// that cannot run or exits abnormally yields an InvocationError.
	Invoke(ctx context.Context, prompt string, wantJSON bool) (string, error)

	// NativeJSON reports whether the provider has a structured JSON
	// output mode of its own.
	NativeJSON() bool

	// Descriptor returns the provider's credential and environment policy.
	Descriptor() Descriptor
}

// ModelSelector is implemented by providers that accept a model override.
// WithModel returns a copy; the receiver is never mutated, so a shared
// registry instance stays race-free.
type ModelSelector interface {
	WithModel(model string) Agent
}

// WorkDirSetter is implemented by providers whose process runs in a
// specific directory, typically a task worktree. WithWorkDir returns a
// copy.
type WorkDirSetter interface {
	WithWorkDir(dir string) Agent
}

// Configure applies the optional model and working-directory overrides
// that a provider supports, returning the (possibly copied) agent.
func Configure(a Agent, model, dir string) Agent {
	if model != "" {
		if ms, ok := a.(ModelSelector); ok {
			a = ms.WithModel(model)
		}
	}
	if dir != "" {
		if ws, ok := a.(WorkDirSetter); ok {
			a = ws.WithWorkDir(dir)
		}
	}
	return a
}

// MissingToolError marks a provider whose executable is absent or broken.
type MissingToolError struct {
	Provider string
	Binary   string
	Err      error
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("agent %s: %s not available: %v", e.Provider, e.Binary, e.Err)
}

func (e *MissingToolError) Unwrap() error {
	return e.Err
}

// InvocationError marks a provider process that could not run or exited
// abnormally. It carries the provider identity and the raw tool output.
type InvocationError struct {
	Provider string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("agent %s: invocation failed", e.Provider)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}
