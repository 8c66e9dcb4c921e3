// Package inference implements the embedding processor: it extracts the
// mapped leaf texts of a document in a fixed pre-order, runs them through an
// inference provider, and scatters the results back into the document at the
// field-map target positions in the identical order.
package inference

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ingestprep/internal/domain"
	dombatch "github.com/kailas-cloud/ingestprep/internal/domain/batch"
	"github.com/kailas-cloud/ingestprep/internal/domain/fieldmap"
	"github.com/kailas-cloud/ingestprep/internal/domain/value"
)

// DefaultNestedListKey is the object key results are wrapped under when a
// list-valued leaf scatters element-wise.
const DefaultNestedListKey = "knn"

// Service is the embedding processor. The field map is immutable after
// construction and shared read-only across concurrent documents.
type Service struct {
	fieldMap      *value.Map
	inferencer    Inferencer
	settings      SettingsReader
	nestedListKey string
	logger        *zap.Logger
}

// New creates an embedding processor.
func New(
	fieldMap *value.Map,
	inf Inferencer,
	settings SettingsReader,
	logger *zap.Logger,
) (*Service, error) {
	if err := fieldmap.ValidateConfig(fieldMap); err != nil {
		return nil, err
	}
	return &Service{
		fieldMap:      fieldMap,
		inferencer:    inf,
		settings:      settings,
		nestedListKey: DefaultNestedListKey,
		logger:        logger,
	}, nil
}

// WithNestedListKey overrides the wrapping key for list-valued leaves.
func (s *Service) WithNestedListKey(key string) *Service {
	if key != "" {
		s.nestedListKey = key
	}
	return s
}

// Execute embeds the mapped fields of one document in place.
func (s *Service) Execute(ctx context.Context, doc *value.Map, indexName string) error {
	texts, err := s.prepare(ctx, doc, indexName)
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return nil
	}

	results, err := s.inferencer.Infer(ctx, texts)
	if err != nil {
		return fmt.Errorf("inference: %w", err)
	}
	if len(results) != len(texts) {
		return fmt.Errorf("got %d results for %d texts: %w", len(results), len(texts), domain.ErrInferenceMismatch)
	}

	return fieldmap.Scatter(s.fieldMap, doc, results, s.nestedListKey)
}

// Doc pairs a document with the identifier batch results are reported under.
type Doc struct {
	ID  string
	Doc *value.Map
}

// ExecuteBatch embeds many documents with one inference round-trip. Texts are
// gathered per document (a document failing validation is reported in its
// Result and excluded, never aborting the batch), sorted by length for
// provider throughput, inferred once, restored to submission order, and
// scattered back per document.
func (s *Service) ExecuteBatch(ctx context.Context, docs []Doc, indexName string) []dombatch.Result {
	results := make([]dombatch.Result, len(docs))
	perDoc := make([][]string, len(docs))
	failed := make([]bool, len(docs))

	var texts []string
	for i, d := range docs {
		docTexts, err := s.prepare(ctx, d.Doc, indexName)
		if err != nil {
			results[i] = dombatch.NewError(d.ID, err)
			failed[i] = true
			continue
		}
		perDoc[i] = docTexts
		texts = append(texts, docTexts...)
	}

	if len(texts) == 0 {
		for i, d := range docs {
			if !failed[i] {
				results[i] = dombatch.NewOK(d.ID)
			}
		}
		return results
	}

	sorted, mapping := dombatch.SortByLength(texts)
	inferred, err := s.inferencer.Infer(ctx, sorted)
	if err == nil && len(inferred) != len(sorted) {
		err = fmt.Errorf("got %d results for %d texts: %w", len(inferred), len(sorted), domain.ErrInferenceMismatch)
	}
	if err != nil {
		// Mark every still-unmarked document with the batch failure.
		for i, d := range docs {
			if !failed[i] {
				results[i] = dombatch.NewError(d.ID, fmt.Errorf("inference: %w", err))
			}
		}
		return results
	}
	restored := dombatch.Restore(mapping, inferred)

	next := 0
	for i, d := range docs {
		if failed[i] {
			continue
		}
		n := len(perDoc[i])
		if n == 0 {
			results[i] = dombatch.NewOK(d.ID)
			continue
		}
		if err := fieldmap.Scatter(s.fieldMap, d.Doc, restored[next:next+n], s.nestedListKey); err != nil {
			results[i] = dombatch.NewError(d.ID, err)
		} else {
			results[i] = dombatch.NewOK(d.ID)
		}
		next += n
	}

	if s.logger != nil {
		s.logger.Debug("batch embedded",
			zap.String("index", indexName),
			zap.Int("documents", len(docs)),
			zap.Int("texts", len(texts)),
		)
	}
	return results
}

// ExecuteBatchAsync runs ExecuteBatch on its own goroutine and delivers the
// per-document results to done. Other batches are never blocked by this one.
func (s *Service) ExecuteBatchAsync(ctx context.Context, docs []Doc, indexName string, done func([]dombatch.Result)) {
	go func() {
		done(s.ExecuteBatch(ctx, docs, indexName))
	}()
}

// prepare validates one document against the field map and extracts its leaf
// texts in traversal order.
func (s *Service) prepare(ctx context.Context, doc *value.Map, indexName string) ([]string, error) {
	maxDepth, err := s.settings.MaxNestingDepth(ctx, indexName)
	if err != nil {
		return nil, fmt.Errorf("read max nesting depth: %w", err)
	}
	if err := fieldmap.Validate(s.fieldMap, doc, maxDepth, true); err != nil {
		return nil, err
	}
	return fieldmap.Extract(s.fieldMap, doc)
}
