// Package keywords extracts unigram, bigram and trigram keyword candidates
// from document text.
package keywords

import (
	"strings"

	"github.com/spigell/resume-matcher/internal/textnorm"
)

// Provenance tells where a keyword came from.
type Provenance string

const (
	Extracted Provenance = "extracted"
	Optimized Provenance = "optimized"
)

// Keyword is a candidate term. Order is the n-gram order (1, 2 or 3).
type Keyword struct {
	Text       string     `json:"text"`
	Order      int        `json:"order"`
	Provenance Provenance `json:"provenance"`
}

// Keywords is an ordered multiset: duplicates are kept and order is the
// extraction order.
type Keywords []Keyword

// Extract returns the unigrams, then bigrams, then trigrams of the filtered
// token stream of text. Stopwords and non-alphanumeric tokens are dropped
// before n-grams are built.
func Extract(text string) Keywords {
	words := textnorm.Words(text)

	result := make(Keywords, 0, 3*len(words))
	for _, word := range words {
		result = append(result, Keyword{Text: word, Order: 1, Provenance: Extracted})
	}
	for _, order := range []int{2, 3} {
		for _, gram := range ngrams(words, order) {
			result = append(result, Keyword{Text: gram, Order: order, Provenance: Extracted})
		}
	}

	return result
}

func ngrams(words []string, n int) []string {
	if len(words) < n {
		return nil
	}

	result := make([]string, 0, len(words)-n+1)
	for i := 0; i+n <= len(words); i++ {
		window := words[i : i+n]
		if containsStopword(window) {
			continue
		}
		result = append(result, strings.Join(window, " "))
	}
	return result
}

func containsStopword(tokens []string) bool {
	for _, token := range tokens {
		if textnorm.IsStopword(token) {
			return true
		}
	}
	return false
}

// FromStrings wraps plain strings as keywords with the given provenance. The
// order is the number of words in each string.
func FromStrings(values []string, provenance Provenance) Keywords {
	result := make(Keywords, 0, len(values))
	for _, value := range values {
		result = append(result, Keyword{
			Text:       value,
			Order:      len(strings.Fields(value)),
			Provenance: provenance,
		})
	}
	return result
}

// Strings returns the keyword texts, duplicates included.
func (k Keywords) Strings() []string {
	result := make([]string, 0, len(k))
	for _, keyword := range k {
		result = append(result, keyword.Text)
	}
	return result
}

// Set returns the distinct keyword texts in first-occurrence order.
func (k Keywords) Set() []string {
	return Dedup(k.Strings())
}

// Dedup removes repeated values keeping the first occurrence.
func Dedup(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
