package ingestprep

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/ingestprep/internal/domain/chunk"
	inferenceuc "github.com/kailas-cloud/ingestprep/internal/usecase/inference"
)

// Option configures a Pipeline.
type Option func(*pipelineConfig)

type pipelineConfig struct {
	logger     *zap.Logger
	tokenizer  chunk.Tokenizer
	inferencer inferenceuc.Inferencer
	settings   SettingsReader
}

// WithLogger sets the pipeline logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *pipelineConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTokenizer replaces the built-in word tokenizers used by
// fixed-token-length chunking.
func WithTokenizer(t chunk.Tokenizer) Option {
	return func(c *pipelineConfig) {
		c.tokenizer = t
	}
}

// WithInferencer replaces the OpenAI-compatible embedding provider built
// from the inference config section.
func WithInferencer(inf inferenceuc.Inferencer) Option {
	return func(c *pipelineConfig) {
		c.inferencer = inf
	}
}

// WithSettingsReader replaces the index settings source entirely; the store
// config section is ignored when set.
func WithSettingsReader(r SettingsReader) Option {
	return func(c *pipelineConfig) {
		c.settings = r
	}
}
