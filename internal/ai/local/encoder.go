// Package local provides an offline embedding based on hashed word counts.
package local

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/spigell/resume-matcher/internal/textnorm"
)

const (
	provider   = "local"
	DefaultDim = 512
)

// Encoder maps the content words and bigrams of a text onto a fixed number of
// buckets. Identical texts get identical vectors; texts without shared words
// are orthogonal unless their terms collide.
type Encoder struct {
	dim int
}

func NewEncoder(dim int) *Encoder {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &Encoder{dim: dim}
}

func (e *Encoder) Encode(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, e.dim)
	words := textnorm.Words(text)
	for i, word := range words {
		e.add(vec, word, 1)
		if i > 0 {
			e.add(vec, words[i-1]+" "+word, 0.5)
		}
	}
	return vec, nil
}

func (e *Encoder) add(vec []float32, term string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(term))
	sum := h.Sum64()

	// The top bit picks the sign so collisions tend to cancel out.
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[sum%uint64(e.dim)] += weight
}

func (e *Encoder) Provider() string {
	return provider
}

func (e *Encoder) Model() string {
	return fmt.Sprintf("hashed-bow-%d", e.dim)
}
