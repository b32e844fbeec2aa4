// Package scoring combines keyword overlap with embedding similarity into a
// job-fit score.
package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/keywords"
	"github.com/spigell/resume-matcher/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultKeywordWeight  = 0.5
	DefaultSemanticWeight = 0.5
)

// Result holds unrounded scores. SemanticSimilarity is nil when embeddings
// were not available.
type Result struct {
	KeywordOverlap     float64
	SemanticSimilarity *float64
	Combined           float64
	CommonKeywords     []string
}

type Scorer struct {
	Encoder        ai.Encoder
	KeywordWeight  float64
	SemanticWeight float64
	Logger         *zap.Logger
}

func New(enc ai.Encoder, log *zap.Logger) *Scorer {
	return &Scorer{
		Encoder:        enc,
		KeywordWeight:  DefaultKeywordWeight,
		SemanticWeight: DefaultSemanticWeight,
		Logger:         log,
	}
}

// OverlapRatio is the share of distinct job keywords also found among the
// resume keywords. An empty job set counts as one to avoid dividing by zero.
func OverlapRatio(resumeKeywords, jobKeywords []string) float64 {
	common := CommonKeywords(resumeKeywords, jobKeywords)
	jobSet := keywords.Dedup(jobKeywords)
	return float64(len(common)) / float64(max(len(jobSet), 1))
}

// CommonKeywords returns the sorted intersection of the distinct values of a
// and b.
func CommonKeywords(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, value := range b {
		inB[value] = struct{}{}
	}

	result := []string{}
	for _, value := range keywords.Dedup(a) {
		if _, ok := inB[value]; ok {
			result = append(result, value)
		}
	}
	sort.Strings(result)
	return result
}

// Cosine returns the cosine similarity of a and b, or 0 when either vector
// has no magnitude. Vectors of different length are compared over their
// common prefix.
func Cosine(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// KeywordOnly scores without embeddings. The combined score is then the
// overlap ratio itself.
func (s *Scorer) KeywordOnly(resumeKeywords, jobKeywords []string) *Result {
	overlap := OverlapRatio(resumeKeywords, jobKeywords)
	return &Result{
		KeywordOverlap: overlap,
		Combined:       overlap,
		CommonKeywords: CommonKeywords(resumeKeywords, jobKeywords),
	}
}

// Score embeds both documents concurrently and combines the cosine of the
// embeddings with the keyword overlap. When the encoder is missing or fails,
// the keyword-only result is returned together with an error wrapping
// ai.ErrSemanticScoringUnavailable.
func (s *Scorer) Score(ctx context.Context, resumeText, jobText string, resumeKeywords, jobKeywords []string) (*Result, error) {
	result := s.KeywordOnly(resumeKeywords, jobKeywords)
	if s.Encoder == nil {
		return result, fmt.Errorf("%w: no encoder configured", ai.ErrSemanticScoringUnavailable)
	}

	provider, model := ai.Describe(s.Encoder)
	log := logger.WithCommonFields(s.Logger, provider, model)

	var resumeVec, jobVec []float32
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vec, err := s.Encoder.Encode(gctx, resumeText)
		if err != nil {
			return fmt.Errorf("encode resume: %w", err)
		}
		resumeVec = vec
		return nil
	})
	g.Go(func() error {
		vec, err := s.Encoder.Encode(gctx, jobText)
		if err != nil {
			return fmt.Errorf("encode job description: %w", err)
		}
		jobVec = vec
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Debug("embedding failed", zap.Error(err))
		return result, fmt.Errorf("%w: %w", ai.ErrSemanticScoringUnavailable, err)
	}

	if len(resumeVec) != len(jobVec) {
		log.Warn("embedding sizes differ", zap.Int("resume", len(resumeVec)), zap.Int("job", len(jobVec)))
	}

	similarity := Cosine(resumeVec, jobVec)
	result.SemanticSimilarity = &similarity
	result.Combined = s.KeywordWeight*result.KeywordOverlap + s.SemanticWeight*similarity

	log.Debug("documents scored",
		zap.Float64("keyword_overlap", result.KeywordOverlap),
		zap.Float64("semantic_similarity", similarity),
		zap.Float64("combined", result.Combined),
	)

	return result, nil
}
