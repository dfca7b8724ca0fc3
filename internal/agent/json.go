package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// jsonCoercion is appended to prompts for providers without a native
// structured output mode.
const jsonCoercion = "\n\nOutput only valid JSON. Do not wrap it in markdown fences or add any prose. " +
	"If you cannot complete the request, still return JSON with an \"error\" field describing why."

// CoerceJSON appends the explicit JSON-only instruction to a prompt.
func CoerceJSON(prompt string) string {
	return prompt + jsonCoercion
}

// ExtractJSON locates the first JSON object in provider output and decodes
// it into out. Providers wrap JSON in prose or markdown fences often
// enough that plain unmarshal is not an option.
func ExtractJSON(output string, out any) error {
	raw := extractObject(output)
	if raw == "" {
		return fmt.Errorf("no JSON object in output")
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode JSON: %w", err)
	}
	return nil
}

// extractObject returns the first balanced {...} span in s, respecting
// strings and escapes.
func extractObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
