// Package template renders prompt templates for workflow steps.
//
// Templates use {{name}} placeholders. Values come from workflow inputs and
// from outputs recorded by earlier steps. Unresolved placeholders are left
// intact so callers can report them instead of silently dropping text.
package template

import (
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_.-]*)\s*\}\}`)

// Render substitutes {{name}} placeholders with values from vars.
// Placeholders without a matching key are left untouched.
func Render(text string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholderRe.FindStringSubmatch(match)[1]
		if val, ok := vars[name]; ok {
			return val
		}
		return match
	})
}

// Placeholders returns the distinct placeholder names in a template, in
// order of first appearance.
func Placeholders(text string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Unresolved returns the placeholder names in text that have no value in
// vars. Useful for warning about prompts that would render incompletely.
func Unresolved(text string, vars map[string]string) []string {
	var missing []string
	for _, name := range Placeholders(text) {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// HasPlaceholders reports whether text contains any {{name}} placeholder.
func HasPlaceholders(text string) bool {
	return placeholderRe.MatchString(text)
}

// Dedent strips common leading whitespace from every line. Prompts written
// as indented Go string literals read better after dedenting.
func Dedent(text string) string {
	lines := strings.Split(text, "\n")
	min := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if min == -1 || indent < min {
			min = indent
		}
	}
	if min <= 0 {
		return text
	}
	for i, line := range lines {
		if len(line) >= min {
			lines[i] = line[min:]
		}
	}
	return strings.Join(lines, "\n")
}
