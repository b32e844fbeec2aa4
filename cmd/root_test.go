package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/taxonomy"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDecodeConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	config, err := decodeConfig(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Matching.JobTitleLimit != 3 || config.Matching.ReplaceThreshold != 95 || config.Matching.AlignmentThreshold != 0.90 {
		t.Fatalf("unexpected matching defaults: %+v", config.Matching)
	}
	if config.Scoring.KeywordWeight != 0.5 || config.Scoring.SemanticWeight != 0.5 {
		t.Fatalf("unexpected scoring defaults: %+v", config.Scoring)
	}
	if config.Embedding.Provider != "none" {
		t.Fatalf("expected semantic scoring to be off by default, got provider %q", config.Embedding.Provider)
	}
	if config.Embedding.Timeout != 30*time.Second || config.Embedding.Gemini.Model != "text-embedding-004" {
		t.Fatalf("unexpected embedding defaults: %+v %+v", config.Embedding, config.Embedding.Gemini)
	}
	if config.Sections.HeaderThreshold != 80 {
		t.Fatalf("unexpected sections defaults: %+v", config.Sections)
	}
}

func TestDecodeConfigFromYAML(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	yaml := `
taxonomy:
  source: https://example.com/skills.json
  soft-skills: data/soft_skills.json
matching:
  job-title-limit: 5
embedding:
  provider: gemini
  timeout: 5s
  gemini:
    api-key-file: /run/secrets/gemini
    max-retries: 3
`
	if err := v.ReadConfig(strings.NewReader(yaml)); err != nil {
		t.Fatalf("reading config: %v", err)
	}

	config, err := decodeConfig(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Taxonomy.Source != "https://example.com/skills.json" || config.Taxonomy.SoftSkills != "data/soft_skills.json" {
		t.Fatalf("unexpected taxonomy config: %+v", config.Taxonomy)
	}
	if config.Matching.JobTitleLimit != 5 || config.Matching.ReplaceThreshold != 95 {
		t.Fatalf("unexpected matching config: %+v", config.Matching)
	}
	if config.Embedding.Provider != "gemini" || config.Embedding.Timeout != 5*time.Second {
		t.Fatalf("unexpected embedding config: %+v", config.Embedding)
	}
	if config.Embedding.Gemini.APIKeyFile != "/run/secrets/gemini" || config.Embedding.Gemini.MaxRetries != 3 {
		t.Fatalf("unexpected gemini config: %+v", config.Embedding.Gemini)
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("RESUME_MATCHER_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("RESUME_MATCHER_TEST_VALUE") })

	if err := loadEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("RESUME_MATCHER_TEST_VALUE"); got != "from-file" {
		t.Fatalf("expected value from env file, got %q", got)
	}

	if err := loadEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error for missing explicit env file")
	}
}

func TestNewEncoderProviders(t *testing.T) {
	ctx := context.Background()

	for _, provider := range []string{"none", ""} {
		enc, err := newEncoder(ctx, &EmbeddingConfig{Provider: provider}, zap.NewNop())
		if err != nil || enc != nil {
			t.Fatalf("expected no encoder for provider %q, got %v, %v", provider, enc, err)
		}
	}

	enc, err := newEncoder(ctx, &EmbeddingConfig{Provider: "local", Timeout: time.Second}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider, _ := ai.Describe(enc); provider != "local" {
		t.Fatalf("expected local encoder, got %q", provider)
	}

	if _, err := newEncoder(ctx, &EmbeddingConfig{Provider: "openai"}, zap.NewNop()); err == nil {
		t.Fatal("expected error for unsupported provider")
	}

	t.Setenv("GOOGLE_API_KEY", "")
	_, err = newEncoder(ctx, &EmbeddingConfig{Provider: "gemini", Gemini: &GeminiConfig{}}, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "gemini api key is not configured") {
		t.Fatalf("expected missing api key error, got %v", err)
	}
}

func TestLoadTaxonomyWithoutSource(t *testing.T) {
	_, err := loadTaxonomy(context.Background(), &TaxonomyConfig{}, zap.NewNop())
	if !errors.Is(err, taxonomy.ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}

	soft, err := loadSoftSkills(context.Background(), &TaxonomyConfig{}, zap.NewNop())
	if soft != nil || err != nil {
		t.Fatalf("expected soft skills to be skipped, got %v, %v", soft, err)
	}
}

func TestResolveTaxonomyFailure(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)

	tax, err := resolveTaxonomy(context.Background(), &TaxonomyConfig{}, false, zap.New(core))
	if tax != nil || err != nil {
		t.Fatalf("expected analysis to continue without a taxonomy, got %v, %v", tax, err)
	}
	if observed.FilterMessageSnippet("skill taxonomy unavailable").Len() != 1 {
		t.Fatalf("expected a warning, got %v", observed.All())
	}

	if _, err := resolveTaxonomy(context.Background(), &TaxonomyConfig{}, true, zap.NewNop()); !errors.Is(err, taxonomy.ErrLoad) {
		t.Fatalf("expected ErrLoad in strict mode, got %v", err)
	}
}

func TestResolveTaxonomyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.json")
	if err := os.WriteFile(path, []byte(`[{"id": "Data Scientist", "skills": ["sql"]}]`), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tax, err := resolveTaxonomy(context.Background(), &TaxonomyConfig{Source: path}, true, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tax.Len() != 1 {
		t.Fatalf("expected one record, got %d", tax.Len())
	}
}
