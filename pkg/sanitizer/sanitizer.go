package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

// Strategy transforms one string field. Pipelines compose strategies so
// validators always see input in a canonical form.
type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var reMultiSpace = regexp.MustCompile(`\s+`)

// TrimAndNormalize trims the input and collapses any run of whitespace
// to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}
	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeLocation(location string) string {
	return TrimAndNormalize(location)
}

// NormalizeEmail lowercases after trimming so lookups are case
// insensitive.
func NormalizeEmail(email string) string {
	p := Pipeline{
		TrimAndNormalize,
		strings.ToLower,
	}
	return p.Apply(email)
}

// NormalizeFreeText keeps user prose intact apart from whitespace noise.
func NormalizeFreeText(text string) string {
	return reMultiSpace.ReplaceAllString(strings.TrimSpace(text), " ")
}
