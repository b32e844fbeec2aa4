package optimizer

import (
	"math"
	"regexp"
	"strings"
)

// Terms are runs of two or more word characters.
var termPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// vector is a sparse row keyed by vocabulary index.
type vector map[int]float64

func terms(doc string) []string {
	return termPattern.FindAllString(strings.ToLower(doc), -1)
}

// vocabularySize counts the distinct terms across docs.
func vocabularySize(docs []string) int {
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for _, term := range terms(doc) {
			seen[term] = struct{}{}
		}
	}
	return len(seen)
}

// tfidf fits a vocabulary on docs and returns one L2-normalised row per doc.
// Weights are raw term counts times the smoothed idf ln((1+n)/(1+df))+1.
// Rows without any term stay empty.
func tfidf(docs []string) []vector {
	vocab := make(map[string]int)
	counts := make([]map[int]int, len(docs))
	df := make(map[int]int)

	for i, doc := range docs {
		counts[i] = make(map[int]int)
		for _, term := range terms(doc) {
			idx, ok := vocab[term]
			if !ok {
				idx = len(vocab)
				vocab[term] = idx
			}
			if counts[i][idx] == 0 {
				df[idx]++
			}
			counts[i][idx]++
		}
	}

	n := float64(len(docs))
	rows := make([]vector, len(docs))
	for i, row := range counts {
		v := make(vector, len(row))
		var norm float64
		for idx, count := range row {
			idf := math.Log((1+n)/(1+float64(df[idx]))) + 1
			w := float64(count) * idf
			v[idx] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for idx := range v {
				v[idx] /= norm
			}
		}
		rows[i] = v
	}

	return rows
}

// cosine of two L2-normalised rows. The boolean is false when either row is
// empty and the angle is undefined.
func cosine(a, b vector) (float64, bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	var dot float64
	for idx, w := range a {
		dot += w * b[idx]
	}
	return dot, true
}
