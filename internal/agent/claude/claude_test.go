package claude

import (
	"context"
	"strings"
	"testing"

	"github.com/valksor/go-taktwerk/internal/testutil"
)

func TestInvokeArgv(t *testing.T) {
	// The stub echoes its argv one per line so the test can assert flag order.
	testutil.StubBinary(t, "claude", `for arg in "$@"; do printf '%s\n' "$arg"; done`)

	a := New().WithModel("opus")
	out, err := a.Invoke(context.Background(), "do the thing", false)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	want := []string{"--print", "--model", "opus", "do the thing"}
	got := strings.Split(strings.TrimSpace(out), "\n")
	if len(got) != len(want) {
		t.Fatalf("argv = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestInvokeJSONUnwrapsEnvelope(t *testing.T) {
	testutil.StubBinary(t, "claude",
		`printf '%s\n' '{"result": "{\"summary\": \"done\"}", "is_error": false}'`)

	out, err := New().Invoke(context.Background(), "summarize", true)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out != `{"summary": "done"}` {
		t.Errorf("output = %q, want unwrapped result field", out)
	}
}

func TestInvokeJSONRequestsNativeFormat(t *testing.T) {
	testutil.StubBinary(t, "claude", `for arg in "$@"; do printf '%s\n' "$arg"; done`)

	out, err := New().Invoke(context.Background(), "summarize this", true)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	argv := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.Contains(out, "--output-format\njson") {
		t.Errorf("argv %v missing --output-format json", argv)
	}
	// Native JSON mode must not rewrite the prompt.
	if argv[len(argv)-1] != "summarize this" {
		t.Errorf("argv %v does not end with the verbatim prompt", argv)
	}
}

func TestUnwrapEnvelope(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"envelope", `{"result": "hello", "is_error": false}`, "hello"},
		{"not json", "plain text output", "plain text output"},
		{"json without result", `{"other": "field"}`, `{"other": "field"}`},
		{"empty result", `{"result": "", "is_error": true}`, `{"result": "", "is_error": true}`},
	}
	for _, tt := range tests {
		if got := unwrapEnvelope(tt.in); got != tt.want {
			t.Errorf("%s: unwrapEnvelope(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestWithModelCopies(t *testing.T) {
	base := New()
	pinned := base.WithModel("opus")
	if base.model != "" {
		t.Error("WithModel() mutated the receiver")
	}
	if pinned.(*Agent).model != "opus" {
		t.Error("WithModel() did not pin the model")
	}

	moved := pinned.(*Agent).WithWorkDir("/work")
	if moved.(*Agent).model != "opus" || moved.(*Agent).dir != "/work" {
		t.Errorf("WithWorkDir() = %+v, must preserve the model", moved)
	}
}

func TestDescriptor(t *testing.T) {
	d := New().Descriptor()
	if d.Binary != "claude" {
		t.Errorf("Binary = %q", d.Binary)
	}
	if len(d.Credentials) == 0 || !d.Credentials[0].Required {
		t.Errorf("Credentials = %+v, want required account state first", d.Credentials)
	}
	if !New().NativeJSON() {
		t.Error("NativeJSON() = false")
	}
}
