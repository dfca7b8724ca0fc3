package vcs

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"Fix login timeout", 0, "fix-login-timeout"},
		{"Überschrift für die Änderung", 0, "uberschrift-fur-die-anderung"},
		{"  lots   of   spaces  ", 0, "lots-of-spaces"},
		{"CamelCase And 123 numbers!", 0, "camelcase-and-123-numbers"},
		{"truncate me please", 11, "truncate-me"},
		{"truncate-at-dash", 9, "truncate"},
		{"", 0, ""},
		{"!!!", 0, ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("Slugify(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}
