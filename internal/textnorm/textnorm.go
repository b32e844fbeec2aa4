// Package textnorm holds the text helpers shared by the segmenter, the keyword
// extractor and the optimizer: normalization, tokenization and stopwords.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	_ "embed"

	"golang.org/x/text/unicode/norm"
)

//go:embed stopwords.txt
var stopwordsRaw string

var (
	stopwords = loadStopwords(stopwordsRaw)
	// Words and runs of punctuation, roughly what a treebank tokenizer yields
	// for resume text.
	tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]+|[^\p{L}\p{N}_\s]+`)
)

func loadStopwords(raw string) map[string]struct{} {
	words := strings.Fields(raw)
	result := make(map[string]struct{}, len(words))
	for _, w := range words {
		result[w] = struct{}{}
	}
	return result
}

// Normalize prepares decoded document text for the core: NFKC folding (which
// turns non-breaking spaces into plain ones), tabs to spaces and lower case.
// Line breaks are preserved.
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = strings.NewReplacer("\t", " ", "\u00a0", " ", "\r\n", "\n", "\r", "\n").Replace(text)
	return strings.ToLower(text)
}

// Tokenize splits text into word tokens and punctuation runs.
func Tokenize(text string) []string {
	return tokenRe.FindAllString(text, -1)
}

// IsStopword reports whether token is an English stopword.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// IsAlnum reports whether token is non-empty and made only of letters and digits.
func IsAlnum(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsAlpha reports whether token is non-empty and made only of letters.
func IsAlpha(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// IsUpper reports whether s has at least one cased rune and no lower-case ones.
func IsUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// Words lower-cases and tokenizes text, keeping only alphanumeric tokens that
// are not stopwords. Order and duplicates are preserved.
func Words(text string) []string {
	tokens := Tokenize(strings.ToLower(text))
	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if IsStopword(token) || !IsAlnum(token) {
			continue
		}
		result = append(result, token)
	}
	return result
}

// Clean reduces a job description to its content words: lower-cased, letters
// only, stopwords removed, joined by single spaces.
func Clean(text string) string {
	tokens := Tokenize(strings.ToLower(text))
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if !IsAlpha(token) || IsStopword(token) {
			continue
		}
		kept = append(kept, token)
	}
	return strings.Join(kept, " ")
}
