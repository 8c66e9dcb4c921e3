// Package openai is the inference collaborator over an OpenAI-compatible
// embeddings API (e.g. Nebius): one CreateEmbeddings call per batch of texts.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ingestprep/internal/domain"
	"github.com/kailas-cloud/ingestprep/internal/domain/value"
	"github.com/kailas-cloud/ingestprep/internal/metrics"
)

// Inferencer runs batch embedding inference via the OpenAI-compatible API.
type Inferencer struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	user       string
	provider   string
	logger     *zap.Logger
}

// Config holds the inference provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	User       string
	Provider   string
	Logger     *zap.Logger
}

// NewInferencer creates an OpenAI-compatible inference provider.
func NewInferencer(cfg *Config) *Inferencer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Inferencer{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		user:       cfg.User,
		provider:   cfg.Provider,
		logger:     cfg.Logger,
	}
}

// Infer implements the inference contract: one embedding result per input
// text, in input order. Results are encoded as lists of numbers so they can
// be scattered straight into a document tree.
func (e *Inferencer) Infer(ctx context.Context, texts []string) ([]value.Value, error) {
	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		User:           e.user,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	metrics.InferenceBatchSize.Observe(float64(len(texts)))
	start := time.Now()

	resp, err := e.client.CreateEmbeddings(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.InferenceRequestsTotal.WithLabelValues(e.provider, string(e.model), "error").Inc()
		metrics.InferenceErrorsTotal.WithLabelValues(e.provider, string(e.model), "api_error").Inc()
		return nil, parseAPIError(err)
	}

	if len(resp.Data) != len(texts) {
		metrics.InferenceRequestsTotal.WithLabelValues(e.provider, string(e.model), "error").Inc()
		metrics.InferenceErrorsTotal.WithLabelValues(e.provider, string(e.model), "count_mismatch").Inc()
		return nil, fmt.Errorf("got %d embeddings for %d inputs: %w",
			len(resp.Data), len(texts), domain.ErrInferenceProvider)
	}

	metrics.InferenceRequestsTotal.WithLabelValues(e.provider, string(e.model), "success").Inc()
	metrics.InferenceRequestDuration.WithLabelValues(e.provider, string(e.model)).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.InferenceTokensTotal.WithLabelValues(e.provider, string(e.model), "prompt").
			Add(float64(resp.Usage.PromptTokens))
		metrics.InferenceTokensTotal.WithLabelValues(e.provider, string(e.model), "total").
			Add(float64(resp.Usage.TotalTokens))
	}

	// The API reports each embedding's input position; place by it rather
	// than trusting response array order.
	results := make([]value.Value, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(results) {
			return nil, fmt.Errorf("embedding index %d out of range: %w", d.Index, domain.ErrInferenceProvider)
		}
		vec := make(value.List, len(d.Embedding))
		for i, f := range d.Embedding {
			vec[i] = value.Number(f)
		}
		results[d.Index] = vec
	}
	for i, r := range results {
		if r == nil {
			return nil, fmt.Errorf("no embedding returned for input %d: %w", i, domain.ErrInferenceProvider)
		}
	}
	return results, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Inferencer) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrInferenceProvider.
func parseAPIError(err error) error {
	wrap := domain.ErrInferenceProvider

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("inference API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("inference API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("inference API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("inference request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
