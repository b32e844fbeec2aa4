// Package fuzzy implements 0-100 string similarity scorers on top of the
// insert/delete edit distance, plus deterministic best-match extraction.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Scorer returns a similarity between 0 and 100.
type Scorer func(a, b string) int

// Match is a scored choice. Index is the position of the choice in the input.
type Match struct {
	Choice string
	Score  int
	Index  int
}

// Process lower-cases s, turns every non letter/digit rune into a space and
// collapses whitespace.
func Process(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(' ')
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Ratio is the normalized indel similarity of a and b as given: a
// substitution costs a deletion plus an insertion.
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	if a == b {
		return 100
	}
	total := len(ra) + len(rb)
	indel := total - 2*lcsLength(ra, rb)
	return round(100 * (float64(total-indel) / float64(total)))
}

// lcsLength is the length of the longest common subsequence of a and b.
func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// PartialRatio scores the shorter string against every equally long window
// of the longer one and keeps the best.
func PartialRatio(a, b string) int {
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return 0
	}

	s := string(shorter)
	best := 0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		score := Ratio(s, string(longer[i:i+len(shorter)]))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio compares a and b after processing and sorting their tokens,
// so word order does not matter.
func TokenSortRatio(a, b string) int {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

// TokenSetRatio compares the shared tokens of a and b with each side's
// remainder, which favors strings where one token set contains the other.
func TokenSetRatio(a, b string) int {
	return tokenSet(a, b, Ratio)
}

// WRatio weighs the plain, token and partial scorers by how different the
// lengths of the two processed strings are.
func WRatio(a, b string) int {
	pa, pb := Process(a), Process(b)
	la, lb := len([]rune(pa)), len([]rune(pb))
	if la == 0 || lb == 0 {
		return 0
	}

	base := float64(Ratio(pa, pb))
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))

	const unbaseScale = 0.95
	if lenRatio < 1.5 {
		tsor := float64(TokenSortRatio(pa, pb)) * unbaseScale
		tser := float64(TokenSetRatio(pa, pb)) * unbaseScale
		return round(math.Max(base, math.Max(tsor, tser)))
	}

	partialScale := 0.9
	if lenRatio > 8 {
		partialScale = 0.6
	}

	partial := float64(PartialRatio(pa, pb)) * partialScale
	ptsor := float64(PartialRatio(sortedTokens(pa), sortedTokens(pb))) * unbaseScale * partialScale
	ptser := float64(tokenSet(pa, pb, PartialRatio)) * unbaseScale * partialScale

	return round(math.Max(base, math.Max(partial, math.Max(ptsor, ptser))))
}

// ExtractOne returns the first choice with the highest score. The boolean is
// false when choices is empty.
func ExtractOne(query string, choices []string, scorer Scorer) (Match, bool) {
	best := Match{Index: -1, Score: -1}
	for i, choice := range choices {
		score := scorer(query, choice)
		if score > best.Score {
			best = Match{Choice: choice, Score: score, Index: i}
		}
	}
	return best, best.Index >= 0
}

// Extract scores every choice and returns up to limit matches by descending
// score. Equal scores keep the order of choices. A non-positive limit returns
// all matches.
func Extract(query string, choices []string, scorer Scorer, limit int) []Match {
	matches := make([]Match, 0, len(choices))
	for i, choice := range choices {
		matches = append(matches, Match{Choice: choice, Score: scorer(query, choice), Index: i})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func sortedTokens(s string) string {
	tokens := strings.Fields(Process(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(a, b string, scorer Scorer) int {
	setA := tokenSetOf(a)
	setB := tokenSetOf(b)

	var common, onlyA, onlyB []string
	for token := range setA {
		if _, ok := setB[token]; ok {
			common = append(common, token)
		} else {
			onlyA = append(onlyA, token)
		}
	}
	for token := range setB {
		if _, ok := setA[token]; !ok {
			onlyB = append(onlyB, token)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(common, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	best := scorer(combinedA, combinedB)
	if sect != "" {
		best = max(best, scorer(sect, combinedA), scorer(sect, combinedB))
	}
	return best
}

func tokenSetOf(s string) map[string]struct{} {
	tokens := strings.Fields(Process(s))
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// round halves to even so scores land on the same integers as the usual
// Python scorers.
func round(v float64) int {
	return int(math.RoundToEven(v))
}
