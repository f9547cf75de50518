// Package scoring implements the stateless classifier and scorer stages of
// the document pipeline. Every exported function is pure: same input, same
// output, no I/O.
package scoring

import (
	"math"
	"strings"
)

// rule pairs a predicate with the result returned when it is the first to match
type rule[T any] struct {
	match  func(text string) bool
	result T
}

// firstMatch walks rules in order and returns the first matching result
func firstMatch[T any](rules []rule[T], text string, fallback T) T {
	for _, r := range rules {
		if r.match(text) {
			return r.result
		}
	}
	return fallback
}

// containsAny reports whether text contains at least one of the keywords.
// Callers lower-case text before matching.
func containsAny(keywords ...string) func(string) bool {
	return func(text string) bool {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
