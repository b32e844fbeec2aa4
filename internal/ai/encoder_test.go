package ai

import (
	"context"
	"errors"
	"testing"
	"time"
)

type blockingEncoder struct{}

func (blockingEncoder) Encode(ctx context.Context, _ string) ([]float32, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingEncoder) Provider() string { return "stub" }
func (blockingEncoder) Model() string    { return "blocking" }

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	enc := WithTimeout(blockingEncoder{}, 10*time.Millisecond)

	_, err := enc.Encode(context.Background(), "text")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	provider, model := Describe(enc)
	if provider != "stub" || model != "blocking" {
		t.Fatalf("unexpected description %q/%q", provider, model)
	}
}

func TestWithTimeoutDisabled(t *testing.T) {
	t.Parallel()

	var enc Encoder = blockingEncoder{}
	if WithTimeout(enc, 0) != enc {
		t.Fatalf("expected encoder to be returned unchanged")
	}
	if WithTimeout(nil, time.Second) != nil {
		t.Fatalf("expected nil encoder to stay nil")
	}
}
