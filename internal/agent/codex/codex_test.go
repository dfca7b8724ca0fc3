package codex

import (
	"context"
	"strings"
	"testing"

	"github.com/valksor/go-taktwerk/internal/testutil"
)

func TestInvokeDeliversPromptOnStdin(t *testing.T) {
	testutil.StubBinary(t, "codex", `printf 'args:'; printf ' %s' "$@"; printf '\n'; cat`)

	out, err := New().Invoke(context.Background(), "fix the bug", false)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.HasPrefix(out, "args: exec\n") {
		t.Errorf("output %q, want exec subcommand", out)
	}
	if !strings.Contains(out, "fix the bug") {
		t.Errorf("output %q missing the stdin prompt", out)
	}
}

func TestInvokeCoercesJSON(t *testing.T) {
	testutil.StubBinary(t, "codex", `cat`)

	out, err := New().Invoke(context.Background(), "summarize", true)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.Contains(out, "summarize") || !strings.Contains(out, "Output only valid JSON") {
		t.Errorf("prompt %q was not coerced to JSON", out)
	}
}

func TestInvokeModelFlag(t *testing.T) {
	testutil.StubBinary(t, "codex", `cat >/dev/null; printf '%s\n' "$@"`)

	out, err := New().WithModel("gpt-5").Invoke(context.Background(), "p", false)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.Contains(out, "--model\ngpt-5") {
		t.Errorf("argv %q missing --model gpt-5", out)
	}
}

func TestDescriptor(t *testing.T) {
	d := New().Descriptor()
	if d.Credentials[0].Path != ".codex/auth.json" || !d.Credentials[0].Required {
		t.Errorf("Credentials = %+v", d.Credentials)
	}
	if New().NativeJSON() {
		t.Error("NativeJSON() = true, codex coerces instead")
	}
}
