package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/catalogsync/internal/catalog"
)

const maxFeatureLen = 40

var (
	packPattern      = regexp.MustCompile(`(?i)(\d+)[\s\p{Z}]+(?:PACKING|PACK|PACKS)`)
	dimensionPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)[\s\p{Z}]*cm`)
	featureShape     = regexp.MustCompile(`^[A-Z0-9&()\- ,.]+$`)
)

// ExtractPackQuantity returns the integer in the first "<n> PACK", "<n> PACKS"
// or "<n> PACKING" occurrence, or nil.
func ExtractPackQuantity(text string) *int {
	m := packPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// ExtractDimensions assigns the first three "<number> cm" values to width,
// depth and height in that order. Fewer matches give a partial map.
func ExtractDimensions(text string) map[string]catalog.Measurement {
	dims := make(map[string]catalog.Measurement)
	matches := dimensionPattern.FindAllStringSubmatch(text, len(catalog.DimensionKeys))
	for i, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		dims[catalog.DimensionKeys[i]] = catalog.Measurement{Value: v, Unit: "cm"}
	}
	return dims
}

// ExtractFeatureLines keeps short, uppercase, spec-bullet-like lines that
// were not already claimed as code, name, subtitle or category. Output is
// uppercased, in first-seen order, without duplicates.
func ExtractFeatureLines(lines []string, excluded ...string) []string {
	skip := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		if e != "" {
			skip[strings.ToUpper(e)] = true
		}
	}

	features := []string{}
	seen := make(map[string]bool)
	for _, line := range lines {
		candidate := strings.ToUpper(line)
		if skip[candidate] || seen[candidate] {
			continue
		}
		if utf8.RuneCountInString(candidate) > maxFeatureLen || !featureShape.MatchString(candidate) {
			continue
		}
		if !hasLongToken(candidate) {
			continue
		}
		seen[candidate] = true
		features = append(features, candidate)
	}
	return features
}

func hasLongToken(s string) bool {
	for _, tok := range strings.Fields(s) {
		if len(tok) > 2 {
			return true
		}
	}
	return false
}
