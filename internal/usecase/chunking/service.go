// Package chunking implements the document chunking processor: it walks a
// field map over a document and replaces long text fields with bounded-size
// chunk lists for downstream embedding.
package chunking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ingestprep/internal/domain"
	"github.com/kailas-cloud/ingestprep/internal/domain/chunk"
	"github.com/kailas-cloud/ingestprep/internal/domain/fieldmap"
	"github.com/kailas-cloud/ingestprep/internal/domain/value"
	"github.com/kailas-cloud/ingestprep/internal/metrics"
)

// Service is the chunking processor. The parsed chunker configuration is
// immutable after construction and safe to share across concurrent
// documents; every Execute call gets its own chunk governor.
type Service struct {
	algorithm     string
	chunker       chunk.Chunker
	maxChunkLimit int
	fieldMap      *value.Map
	settings      SettingsReader
	logger        *zap.Logger
}

// New creates a chunking processor. algorithmMap must contain exactly one
// entry: the algorithm name mapped to its parameters (which may carry the
// processor-level max_chunk_limit).
func New(
	algorithmMap map[string]map[string]any,
	fieldMap *value.Map,
	tok chunk.Tokenizer,
	settings SettingsReader,
	logger *zap.Logger,
) (*Service, error) {
	if len(algorithmMap) != 1 {
		return nil, fmt.Errorf(
			"algorithm must contain and only contain 1 algorithm, got %d: %w",
			len(algorithmMap), domain.ErrInvalidConfig,
		)
	}
	if err := fieldmap.ValidateConfig(fieldMap); err != nil {
		return nil, err
	}

	var algorithm string
	var params map[string]any
	for name, p := range algorithmMap {
		algorithm, params = name, p
	}
	if params == nil {
		params = map[string]any{}
	}

	chunker, err := chunk.New(algorithm, params, tok)
	if err != nil {
		return nil, err
	}
	maxChunkLimit, err := chunk.ParseMaxChunkLimit(params)
	if err != nil {
		return nil, err
	}

	return &Service{
		algorithm:     algorithm,
		chunker:       chunker,
		maxChunkLimit: maxChunkLimit,
		fieldMap:      fieldMap,
		settings:      settings,
		logger:        logger,
	}, nil
}

// Execute chunks every mapped text field of doc in place, writing the chunk
// list at each field-map target key. The per-document chunk ceiling spans all
// chunked fields of this one document.
func (s *Service) Execute(ctx context.Context, doc *value.Map, indexName string) error {
	maxDepth, err := s.settings.MaxNestingDepth(ctx, indexName)
	if err != nil {
		return fmt.Errorf("read max nesting depth: %w", err)
	}
	if err := fieldmap.Validate(s.fieldMap, doc, maxDepth, true); err != nil {
		return err
	}

	maxTokenCount := 0
	if s.algorithm == chunk.AlgorithmFixedTokenLength {
		maxTokenCount, err = s.settings.MaxTokenCount(ctx, indexName)
		if err != nil {
			return fmt.Errorf("read max token count: %w", err)
		}
	}

	// First pass counts the non-empty strings to be chunked so the governor
	// can reserve one budget slot per string still waiting.
	pending := 0
	err = fieldmap.Walk(s.fieldMap, doc, func(_, _ string, leaf value.Value) (value.Value, error) {
		switch lv := leaf.(type) {
		case value.String:
			if lv != "" {
				pending++
			}
		case value.List:
			if fieldmap.IsStringList(lv) {
				for _, elem := range lv {
					if elem.(value.String) != "" {
						pending++
					}
				}
			}
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	gov := chunk.NewGovernor(s.maxChunkLimit)
	err = fieldmap.Walk(s.fieldMap, doc, func(sourceKey, _ string, leaf value.Value) (value.Value, error) {
		switch lv := leaf.(type) {
		case value.String:
			chunks, err := s.chunkString(string(lv), gov, &pending, maxTokenCount)
			if err != nil {
				return nil, fmt.Errorf("field [%s]: %w", sourceKey, err)
			}
			return toValueList(chunks), nil
		case value.List:
			if !fieldmap.IsStringList(lv) {
				return nil, nil
			}
			var flat []string
			for _, elem := range lv {
				chunks, err := s.chunkString(string(elem.(value.String)), gov, &pending, maxTokenCount)
				if err != nil {
					return nil, fmt.Errorf("field [%s]: %w", sourceKey, err)
				}
				flat = append(flat, chunks...)
			}
			return toValueList(flat), nil
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	metrics.ChunksProducedTotal.WithLabelValues(s.algorithm).Add(float64(gov.Count()))
	if s.logger != nil {
		s.logger.Debug("document chunked",
			zap.String("index", indexName),
			zap.String("algorithm", s.algorithm),
			zap.Int("chunks", gov.Count()),
		)
	}
	return nil
}

// chunkString chunks one string under the document governor. Empty strings
// produce no chunks and do not consume a pending slot.
func (s *Service) chunkString(content string, gov *chunk.Governor, pending *int, maxTokenCount int) ([]string, error) {
	if content == "" {
		return nil, nil
	}
	rt := chunk.Runtime{Governor: gov, PendingStrings: *pending, MaxTokenCount: maxTokenCount}
	chunks, err := s.chunker.Chunk(content, rt)
	if err != nil {
		return nil, err
	}
	gov.Add(len(chunks))
	*pending--
	return chunks, nil
}

func toValueList(chunks []string) value.List {
	out := make(value.List, len(chunks))
	for i, c := range chunks {
		out[i] = value.String(c)
	}
	return out
}
