package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Agent.Default != "claude" {
		t.Errorf("Agent.Default = %q", cfg.Agent.Default)
	}
	if cfg.Workflow.Default != "implement" || cfg.Workflow.Dir != "workflows" {
		t.Errorf("Workflow = %+v", cfg.Workflow)
	}
	if cfg.Git.BranchPrefix != "takt" || cfg.Git.Remote != "origin" {
		t.Errorf("Git = %+v", cfg.Git)
	}
	if cfg.Tracker.Name != "" {
		t.Errorf("Tracker.Name = %q, want disabled by default", cfg.Tracker.Name)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "agent:\n  default: codex\ngit:\n  base_branch: develop\n")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Agent.Default != "codex" {
		t.Errorf("Agent.Default = %q, want codex", cfg.Agent.Default)
	}
	if cfg.Git.BaseBranch != "develop" {
		t.Errorf("Git.BaseBranch = %q", cfg.Git.BaseBranch)
	}
	// Fields the file omits keep their defaults.
	if cfg.Git.BranchPrefix != "takt" || cfg.Workflow.Default != "implement" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "agent: [unclosed\n")

	if _, err := Load(root); err == nil {
		t.Error("Load() error = nil for malformed YAML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	root := t.TempDir()

	cfg := NewDefault()
	cfg.Agent.Model = "opus"
	cfg.Tracker.Name = "github"
	if err := Save(root, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Agent.Model != "opus" || loaded.Tracker.Name != "github" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestLoadDotEnv(t *testing.T) {
	root := t.TempDir()
	envDir := filepath.Join(root, Dir)
	if err := os.MkdirAll(envDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(envDir, EnvFileName), []byte("TAKT_TEST_VAR=fromfile\nTAKT_TEST_SET=fromfile\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TAKT_TEST_VAR", "")
	os.Unsetenv("TAKT_TEST_VAR")
	t.Setenv("TAKT_TEST_SET", "fromenv")

	if err := LoadDotEnv(root); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("TAKT_TEST_VAR"); got != "fromfile" {
		t.Errorf("TAKT_TEST_VAR = %q, want fromfile", got)
	}
	// Existing environment wins over .env values.
	if got := os.Getenv("TAKT_TEST_SET"); got != "fromenv" {
		t.Errorf("TAKT_TEST_SET = %q, want fromenv", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(t.TempDir()); err != nil {
		t.Errorf("LoadDotEnv() error = %v, want nil for missing file", err)
	}
}

func writeConfig(t *testing.T, root, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, Dir), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(root), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
