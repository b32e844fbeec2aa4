// Package ai defines the embedding boundary used for semantic scoring.
package ai

import (
	"context"
	"errors"
	"time"
)

// ErrSemanticScoringUnavailable is reported when document embeddings could
// not be obtained.
var ErrSemanticScoringUnavailable = errors.New("semantic scoring unavailable")

// Encoder turns text into a fixed-length embedding vector.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
}

// Describer is implemented by encoders that can name their backend for logs.
type Describer interface {
	Provider() string
	Model() string
}

// Describe returns the provider and model of enc when it exposes them.
func Describe(enc Encoder) (provider, model string) {
	if d, ok := enc.(Describer); ok {
		return d.Provider(), d.Model()
	}
	return "", ""
}

type timeoutEncoder struct {
	Encoder
	timeout time.Duration
}

// WithTimeout bounds every Encode call of enc by d. A non-positive d returns
// enc unchanged.
func WithTimeout(enc Encoder, d time.Duration) Encoder {
	if enc == nil || d <= 0 {
		return enc
	}
	return &timeoutEncoder{Encoder: enc, timeout: d}
}

func (t *timeoutEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Encoder.Encode(ctx, text)
}

func (t *timeoutEncoder) Provider() string {
	provider, _ := Describe(t.Encoder)
	return provider
}

func (t *timeoutEncoder) Model() string {
	_, model := Describe(t.Encoder)
	return model
}
