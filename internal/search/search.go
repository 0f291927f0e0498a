package search

import (
	"slices"
	"strings"
	"unicode"

	"github.com/rogersnm/smoothies/internal/model"
)

// Normalize lowercases text and drops everything that is not a letter or a
// digit. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	lower := strings.ToLower(text)
	var sb strings.Builder
	sb.Grow(len(lower))
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Filter returns the smoothies matching every whitespace-separated token of
// query. A token matches when its normalized form is contained in the name,
// a tag or an ingredient name. Input order is preserved.
func Filter(query string, smoothies []model.Smoothie) []model.Smoothie {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return slices.Clone(smoothies)
	}
	out := make([]model.Smoothie, 0, len(smoothies))
	for _, s := range smoothies {
		if matches(tokens, s) {
			out = append(out, s)
		}
	}
	return out
}

func tokenize(query string) []string {
	var tokens []string
	for _, f := range strings.Fields(query) {
		// A token that normalizes to "" is contained in every field.
		if n := Normalize(f); n != "" {
			tokens = append(tokens, n)
		}
	}
	return tokens
}

func matches(tokens []string, s model.Smoothie) bool {
	fields := make([]string, 0, 1+len(s.Tags)+len(s.Ingredients))
	fields = append(fields, Normalize(s.Name))
	for _, tag := range s.Tags {
		fields = append(fields, Normalize(tag))
	}
	for _, ing := range s.Ingredients {
		fields = append(fields, Normalize(ing.Name))
	}
	for _, tok := range tokens {
		if !slices.ContainsFunc(fields, func(f string) bool { return strings.Contains(f, tok) }) {
			return false
		}
	}
	return true
}
