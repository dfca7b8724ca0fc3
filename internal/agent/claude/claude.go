// Package claude wraps the Claude Code CLI as an agent provider.
package claude

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/valksor/go-taktwerk/internal/agent"
)

const (
	Name   = "claude"
	binary = "claude"
)

// Agent invokes the Claude CLI non-interactively via `claude --print`.
// Claude has a native structured output mode, so JSON requests use
// --output-format json instead of prompt coercion.
type Agent struct {
	model string
	dir   string
}

// New creates a Claude agent.
func New() *Agent {
	return &Agent{}
}

// WithModel returns a copy pinned to a model id.
func (a *Agent) WithModel(model string) agent.Agent {
	return &Agent{model: model, dir: a.dir}
}

// WithWorkDir returns a copy that runs the CLI in dir.
func (a *Agent) WithWorkDir(dir string) agent.Agent {
	return &Agent{model: a.model, dir: dir}
}

func (a *Agent) Name() string { return Name }

func (a *Agent) NativeJSON() bool { return true }

func (a *Agent) CheckAvailable() error {
	return agent.CheckBinary(Name, binary, a.Descriptor().MinVersion)
}

// Invoke runs the CLI with the prompt as an argument. With wantJSON the
// CLI's native JSON envelope is requested and the result field unwrapped.
func (a *Agent) Invoke(ctx context.Context, prompt string, wantJSON bool) (string, error) {
	args := []string{"--print"}
	if a.model != "" {
		args = append(args, "--model", a.model)
	}
	if wantJSON {
		args = append(args, "--output-format", "json")
	}
	args = append(args, prompt)

	out, err := agent.RunBinary(ctx, agent.InvokeSpec{
		Provider: Name,
		Binary:   binary,
		Args:     args,
		Dir:      a.dir,
		Env:      agent.ForwardEnv(a.Descriptor(), os.Environ()),
	})
	if err != nil {
		return "", err
	}
	if wantJSON {
		return unwrapEnvelope(out), nil
	}
	return out, nil
}

func (a *Agent) Descriptor() agent.Descriptor {
	return agent.Descriptor{
		Binary:     binary,
		MinVersion: "1.0.0",
		Credentials: []agent.CredentialFile{
			{Path: ".claude.json", Description: "Claude CLI account state", Required: true},
			{Path: ".claude", Description: "Claude CLI settings and session data"},
		},
		EnvPrefixes: []string{"ANTHROPIC_", "CLAUDE_"},
	}
}

// envelope is the CLI's --output-format json wrapper.
type envelope struct {
	Result  string `json:"result"`
	IsError bool   `json:"is_error"`
}

// unwrapEnvelope extracts the result text from the CLI's JSON envelope.
// Anything that does not parse as an envelope passes through unchanged so
// downstream JSON extraction still gets a chance.
func unwrapEnvelope(out string) string {
	var env envelope
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &env); err != nil {
		return out
	}
	if env.Result == "" {
		return out
	}
	return env.Result
}

var _ agent.Agent = (*Agent)(nil)
