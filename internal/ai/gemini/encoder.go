package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/utils"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	provider      = "gemini"
	defaultModel  = "text-embedding-004"
	taskType      = "SEMANTIC_SIMILARITY"
	retryBackoff  = 2 * time.Second
	maxRetryDelay = 30 * time.Second
)

var (
	wait           = utils.WaitFor
	retryAfterExpr = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*(s|sec|secs|second|seconds)?\b`)
)

type embedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Encoder embeds documents with the Gemini embedding API.
type Encoder struct {
	embedder     embedder
	model        string
	maxRetries   int
	maxLogLength int
	logger       *zap.Logger
}

// NewEncoder creates an Encoder for the Gemini API backend. maxRetries is the
// total number of attempts per document and is at least one.
func NewEncoder(ctx context.Context, apiKey, model string, maxRetries, maxLogLength int, log *zap.Logger) (*Encoder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newEncoder(client.Models, model, maxRetries, maxLogLength, log), nil
}

func newEncoder(e embedder, model string, maxRetries, maxLogLength int, log *zap.Logger) *Encoder {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &Encoder{
		embedder:     e,
		model:        model,
		maxRetries:   maxRetries,
		maxLogLength: maxLogLength,
		logger:       logger.WithCommonFields(log, provider, model),
	}
}

// Encode returns the embedding of text. Temporary API failures are retried
// up to the configured number of attempts unless the API asks to wait longer
// than maxRetryDelay.
func (e *Encoder) Encode(ctx context.Context, text string) ([]float32, error) {
	if e == nil || e.embedder == nil {
		return nil, errors.New("gemini encoder is not initialized")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text must not be empty")
	}

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: text}},
	}}
	config := &genai.EmbedContentConfig{TaskType: taskType}

	var lastErr error
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		e.logger.Debug("requesting embedding",
			zap.Int("attempt", attempt),
			zap.String("text", utils.TruncateForLog(text, e.maxLogLength)),
		)

		resp, err := e.embedder.EmbedContent(ctx, e.model, contents, config)
		if err == nil {
			return firstEmbedding(resp)
		}
		lastErr = err

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == e.maxRetries {
			break
		}

		e.logger.Warn("embedding request failed, retrying", zap.Error(err), zap.Duration("delay", delay))
		if err := wait(ctx, delay); err != nil {
			return nil, fmt.Errorf("waiting for retry: %w", err)
		}
	}

	return nil, fmt.Errorf("embed content: %w", lastErr)
}

func (e *Encoder) Provider() string {
	return provider
}

func (e *Encoder) Model() string {
	if e == nil {
		return ""
	}
	return e.model
}

func firstEmbedding(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, errors.New("gemini api returned empty response")
	}
	for _, embedding := range resp.Embeddings {
		if embedding != nil && len(embedding.Values) > 0 {
			return embedding.Values, nil
		}
	}
	return nil, errors.New("gemini api returned no embedding values")
}

// retryDelay decides whether err is worth another attempt and how long to
// wait before it.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		if delay, ok := parseRetryAfter(apiErr.Message); ok {
			return delay, delay <= maxRetryDelay
		}
		return retryBackoff * time.Duration(attempt), true
	case apiErr.Code >= http.StatusInternalServerError:
		return retryBackoff * time.Duration(attempt), true
	default:
		return 0, false
	}
}

func parseRetryAfter(message string) (time.Duration, bool) {
	m := retryAfterExpr.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}
