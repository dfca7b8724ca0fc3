package commands

import (
	"context"
	"fmt"

	"github.com/valksor/go-taktwerk/internal/agent"
	"github.com/valksor/go-taktwerk/internal/agent/claude"
	"github.com/valksor/go-taktwerk/internal/agent/codex"
	"github.com/valksor/go-taktwerk/internal/agent/gemini"
	"github.com/valksor/go-taktwerk/internal/conductor"
	"github.com/valksor/go-taktwerk/internal/config"
	"github.com/valksor/go-taktwerk/internal/log"
	"github.com/valksor/go-taktwerk/internal/storage"
	"github.com/valksor/go-taktwerk/internal/tracker"
	"github.com/valksor/go-taktwerk/internal/tracker/github"
	"github.com/valksor/go-taktwerk/internal/tracker/gitlab"
	"github.com/valksor/go-taktwerk/internal/vcs"
)

// buildConductor wires the workspace, repository, agents and trackers for
// the current directory.
func buildConductor(ctx context.Context) (*conductor.Conductor, error) {
	git, err := vcs.New(".")
	if err != nil {
		return nil, fmt.Errorf("takt must run inside a git repository: %w", err)
	}

	cfg, err := config.Load(git.Root())
	if err != nil {
		return nil, err
	}

	ws, err := storage.Open(git.Root())
	if err != nil {
		return nil, err
	}

	agents := agent.NewRegistry()
	for _, a := range []agent.Agent{claude.New(), codex.New(), gemini.New()} {
		if err := agents.Register(a); err != nil {
			return nil, err
		}
	}
	if err := agents.SetDefault(cfg.Agent.Default); err != nil {
		return nil, fmt.Errorf("default agent: %w", err)
	}

	trackers := tracker.NewRegistry()
	if cfg.Tracker.Name != "" {
		if err := registerTracker(ctx, trackers, git, cfg); err != nil {
			// Tracker setup failing must not block local-only commands.
			log.Debug("tracker unavailable", "tracker", cfg.Tracker.Name, log.Err(err))
		}
	}

	return conductor.New(ws, cfg, git, agents, trackers), nil
}

func registerTracker(ctx context.Context, trackers *tracker.Registry, git *vcs.Git, cfg *config.Config) error {
	remoteURL, err := git.RemoteURL(ctx, cfg.Git.Remote)
	if err != nil {
		return err
	}

	var tr tracker.Tracker
	switch cfg.Tracker.Name {
	case github.Name:
		tr, err = github.FromRemote(remoteURL)
	case gitlab.Name:
		tr, err = gitlab.FromRemote(remoteURL)
	default:
		return fmt.Errorf("unknown tracker: %s", cfg.Tracker.Name)
	}
	if err != nil {
		return err
	}
	return trackers.Register(tr)
}

// parseInputs turns repeated name=value flags into a map.
func parseInputs(pairs []string) (map[string]string, error) {
	inputs := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := cutPair(pair)
		if !ok {
			return nil, fmt.Errorf("invalid input %q, expected name=value", pair)
		}
		inputs[name] = value
	}
	return inputs, nil
}

func cutPair(s string) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], i > 0
		}
	}
	return "", "", false
}
