package parser

import (
	"regexp"
	"strings"
)

// maxCodeLen is the longest cleaned line still considered a product code.
const maxCodeLen = 24

var codeShape = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 \-]*$`)

// NormalizeLine collapses every whitespace run to a single space and trims
// the ends.
func NormalizeLine(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// SplitLines splits page text into normalized, non-empty lines.
func SplitLines(text string) []string {
	raw := strings.FieldsFunc(text, isLineBreak)
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if n := NormalizeLine(l); n != "" {
			lines = append(lines, n)
		}
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// LooksLikeProductCode reports whether line could be a product code. The
// line is uppercased and reduced to A-Z, 0-9, hyphen and space; the result
// must be 1-24 characters, contain a digit, and start with a letter or digit.
// False positives are expected; callers only use the first hit on a page.
func LooksLikeProductCode(line string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == ' ' {
			return r
		}
		return -1
	}, strings.ToUpper(line))

	if cleaned == "" || len(cleaned) > maxCodeLen {
		return false
	}
	return strings.ContainsAny(cleaned, "0123456789") && codeShape.MatchString(cleaned)
}
