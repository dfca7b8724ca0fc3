package agent

import (
	"strings"
	"testing"
)

func TestExtractJSONPlain(t *testing.T) {
	var out struct {
		Title string `json:"title"`
	}
	if err := ExtractJSON(`{"title": "hello"}`, &out); err != nil {
		t.Fatalf("ExtractJSON() error = %v", err)
	}
	if out.Title != "hello" {
		t.Errorf("Title = %q, want hello", out.Title)
	}
}

func TestExtractJSONWrappedInProse(t *testing.T) {
	input := "Sure! Here is the result:\n```json\n{\"title\": \"wrapped\"}\n```\nLet me know."
	var out struct {
		Title string `json:"title"`
	}
	if err := ExtractJSON(input, &out); err != nil {
		t.Fatalf("ExtractJSON() error = %v", err)
	}
	if out.Title != "wrapped" {
		t.Errorf("Title = %q, want wrapped", out.Title)
	}
}

func TestExtractJSONNestedBraces(t *testing.T) {
	input := `noise {"outer": {"inner": "deep"}, "brace": "{not json}"} trailing`
	var out struct {
		Outer map[string]string `json:"outer"`
		Brace string            `json:"brace"`
	}
	if err := ExtractJSON(input, &out); err != nil {
		t.Fatalf("ExtractJSON() error = %v", err)
	}
	if out.Outer["inner"] != "deep" {
		t.Errorf("Outer = %v", out.Outer)
	}
	if out.Brace != "{not json}" {
		t.Errorf("Brace = %q, braces inside strings must not confuse the scanner", out.Brace)
	}
}

func TestExtractJSONEscapedQuotes(t *testing.T) {
	input := `{"msg": "she said \"hi\" {loudly}"}`
	var out struct {
		Msg string `json:"msg"`
	}
	if err := ExtractJSON(input, &out); err != nil {
		t.Fatalf("ExtractJSON() error = %v", err)
	}
	if out.Msg != `she said "hi" {loudly}` {
		t.Errorf("Msg = %q", out.Msg)
	}
}

func TestExtractJSONNoObject(t *testing.T) {
	var out map[string]any
	if err := ExtractJSON("no json here at all", &out); err == nil {
		t.Error("ExtractJSON() error = nil, want no-object error")
	}
	if err := ExtractJSON("{truncated", &out); err == nil {
		t.Error("ExtractJSON() on unbalanced input error = nil, want error")
	}
}

func TestCoerceJSON(t *testing.T) {
	coerced := CoerceJSON("Summarize this.")
	if !strings.HasPrefix(coerced, "Summarize this.") {
		t.Error("CoerceJSON() dropped the original prompt")
	}
	if !strings.Contains(coerced, "Output only valid JSON") {
		t.Error("CoerceJSON() missing the JSON instruction")
	}
	if !strings.Contains(coerced, `"error"`) {
		t.Error("CoerceJSON() missing the error-field fallback instruction")
	}
}
