package util

import (
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Match is one result of FuzzySearch.
type Match[T any] struct {
	Item  T
	Index int
	// Score is between 0 (exact) and 1 (nothing in common).
	Score float64
}

// FuzzyScore compares query with text. A text containing the query scores 0;
// otherwise every query word is compared with its closest text word by edit
// distance and the mean distance ratio is returned.
func FuzzyScore(query, text string) float64 {
	query = strings.ToLower(strings.TrimSpace(query))
	text = strings.ToLower(text)
	if query == "" {
		return 1
	}
	if strings.Contains(text, query) {
		return 0
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return 1
	}

	qWords := strings.Fields(query)
	total := 0.0
	for _, q := range qWords {
		best := 1.0
		for _, w := range words {
			if strings.Contains(w, q) {
				best = 0
				break
			}
			ratio := levenshtein.RatioForStrings([]rune(q), []rune(w), levenshtein.DefaultOptions)
			if d := 1 - ratio; d < best {
				best = d
			}
		}
		total += best
	}
	return total / float64(len(qWords))
}

// FuzzySearch scores every item by its best field and returns the items
// scoring at or below threshold, best first. Ties keep input order.
func FuzzySearch[T any](items []T, query string, threshold float64, fields func(T) []string) []Match[T] {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	var out []Match[T]
	for i, item := range items {
		best := 1.0
		for _, f := range fields(item) {
			if s := FuzzyScore(query, f); s < best {
				best = s
			}
		}
		if best <= threshold {
			out = append(out, Match[T]{Item: item, Index: i, Score: best})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out
}
