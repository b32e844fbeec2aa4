package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/ai/gemini"
	"github.com/spigell/resume-matcher/internal/ai/local"
	"github.com/spigell/resume-matcher/internal/secrets"
	"github.com/spigell/resume-matcher/internal/taxonomy"

	"go.uber.org/zap"
)

const (
	providerGemini = "gemini"
	providerLocal  = "local"
	providerNone   = "none"
)

func loadTaxonomy(ctx context.Context, cfg *TaxonomyConfig, logger *zap.Logger) (*taxonomy.Taxonomy, error) {
	source := strings.TrimSpace(cfg.Source)
	if source == "" {
		return nil, &taxonomy.LoadError{Source: "config", Err: errors.New("taxonomy.source is not configured")}
	}

	return taxonomy.Load(ctx, newSource(source, logger),
		taxonomy.WithMirror(cfg.Mirror),
		taxonomy.WithLogger(logger),
	)
}

// resolveTaxonomy loads the skill taxonomy. Outside strict mode a load
// failure is logged and a nil taxonomy is returned, which leaves extraction
// and scoring running without title matching and skill alignment.
func resolveTaxonomy(ctx context.Context, cfg *TaxonomyConfig, strict bool, logger *zap.Logger) (*taxonomy.Taxonomy, error) {
	tax, err := loadTaxonomy(ctx, cfg, logger)
	if err == nil {
		return tax, nil
	}
	if strict {
		return nil, err
	}

	logger.Warn("skill taxonomy unavailable, title matching and skill alignment disabled",
		zap.Error(err),
		zap.String("hint", "set taxonomy.source in the config file or the RESUME_MATCHER_TAXONOMY environment variable"),
	)
	return nil, nil
}

// loadSoftSkills returns nil without an error when no soft skill source is
// configured.
func loadSoftSkills(ctx context.Context, cfg *TaxonomyConfig, logger *zap.Logger) (*taxonomy.Taxonomy, error) {
	source := strings.TrimSpace(cfg.SoftSkills)
	if source == "" {
		return nil, nil
	}
	return taxonomy.Load(ctx, newSource(source, logger), taxonomy.WithLogger(logger))
}

func newSource(location string, logger *zap.Logger) taxonomy.Source {
	src := taxonomy.NewSource(location)
	if httpSrc, ok := src.(*taxonomy.HTTPSource); ok {
		httpSrc.UserAgent = fmt.Sprintf("%s/%s", app, version)
		httpSrc.Logger = logger
	}
	return src
}

// newEncoder builds the configured embedding backend. The none provider,
// also used when no provider is set, returns a nil encoder, which turns
// semantic scoring off. The local provider has to be asked for explicitly.
func newEncoder(ctx context.Context, cfg *EmbeddingConfig, logger *zap.Logger) (ai.Encoder, error) {
	var enc ai.Encoder
	switch provider := strings.ToLower(strings.TrimSpace(cfg.Provider)); provider {
	case "", providerNone:
		return nil, nil
	case providerLocal:
		enc = local.NewEncoder(local.DefaultDim)
	case providerGemini:
		apiKey, err := resolveAPIKey(cfg.Gemini)
		if err != nil {
			return nil, err
		}
		g := cfg.Gemini
		enc, err = gemini.NewEncoder(ctx, apiKey, g.Model, g.MaxRetries, g.MaxLogLength, logger)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", provider)
	}

	return ai.WithTimeout(enc, cfg.Timeout), nil
}

func resolveAPIKey(cfg *GeminiConfig) (string, error) {
	if cfg == nil {
		return "", errors.New("embedding.gemini is not configured")
	}

	return secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "GOOGLE_API_KEY",
	})
}
