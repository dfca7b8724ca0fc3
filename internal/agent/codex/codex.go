// Package codex wraps the OpenAI Codex CLI as an agent provider.
package codex

import (
	"context"
	"os"

	"github.com/valksor/go-taktwerk/internal/agent"
)

const (
	Name   = "codex"
	binary = "codex"
)

// Agent invokes the Codex CLI non-interactively via `codex exec` with the
// prompt piped on stdin. Codex has no structured output mode; JSON
// requests go through prompt coercion.
type Agent struct {
	model string
	dir   string
}

// New creates a Codex agent.
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

func (a *Agent) NativeJSON() bool { return false }

func (a *Agent) CheckAvailable() error {
	return agent.CheckBinary(Name, binary, a.Descriptor().MinVersion)
}

func (a *Agent) Invoke(ctx context.Context, prompt string, wantJSON bool) (string, error) {
	if wantJSON {
		prompt = agent.CoerceJSON(prompt)
	}

	args := []string{"exec"}
	if a.model != "" {
		args = append(args, "--model", a.model)
	}

	return agent.RunBinary(ctx, agent.InvokeSpec{
		Provider: Name,
		Binary:   binary,
		Args:     args,
		Stdin:    prompt,
		Dir:      a.dir,
		Env:      agent.ForwardEnv(a.Descriptor(), os.Environ()),
	})
}

func (a *Agent) Descriptor() agent.Descriptor {
	return agent.Descriptor{
		Binary: binary,
		Credentials: []agent.CredentialFile{
			{Path: ".codex/auth.json", Description: "Codex CLI auth token", Required: true},
			{Path: ".codex/config.toml", Description: "Codex CLI configuration"},
		},
		EnvPrefixes: []string{"OPENAI_"},
	}
}

var _ agent.Agent = (*Agent)(nil)
