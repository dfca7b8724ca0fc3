package vcs

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransform decomposes accented characters and strips the combining
// marks, so "Überschrift" folds to "Uberschrift" before slugging.
var foldTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a title into a branch-safe slug of at most maxLen runes.
func Slugify(title string, maxLen int) string {
	folded, _, err := transform.String(foldTransform, title)
	if err != nil {
		folded = title
	}

	var sb strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteRune('-')
				lastDash = true
			}
		}
	}

	slug := strings.Trim(sb.String(), "-")
	if maxLen > 0 && len(slug) > maxLen {
		slug = strings.Trim(slug[:maxLen], "-")
	}
	return slug
}
