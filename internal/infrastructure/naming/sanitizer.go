package naming

import (
	"path/filepath"
	"strings"
	"unicode"
)

const replacement = '_'

// DefaultMaxLength bounds the generated base name (without extension).
const DefaultMaxLength = 120

// Sanitize strips characters that are illegal in filenames on common
// filesystems, collapses whitespace and underscore runs, and trims the
// result. Japanese text passes through untouched. Idempotent.
func Sanitize(name string) string {
	return SanitizeN(name, DefaultMaxLength)
}

func SanitizeN(name string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}

	var b strings.Builder
	b.Grow(len(name))
	prevSep := false
	for _, r := range name {
		switch {
		case isIllegal(r) || unicode.IsSpace(r) || unicode.IsControl(r) || r == replacement:
			if !prevSep {
				b.WriteRune(replacement)
				prevSep = true
			}
		default:
			b.WriteRune(r)
			prevSep = false
		}
	}

	out := strings.Trim(b.String(), string(replacement))
	if runes := []rune(out); len(runes) > maxLen {
		out = strings.Trim(string(runes[:maxLen]), string(replacement))
	}
	return out
}

func isIllegal(r rune) bool {
	switch r {
	case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
		return true
	}
	return false
}

// BuildFilename assembles "<date>_<name>.<ext>" from the analysis fields.
// The extension is taken from the original filename, lowercased.
func BuildFilename(date, documentName, originalFilename string, maxLen int) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	base := SanitizeN(date+"_"+documentName, maxLen)
	return base + ext
}
