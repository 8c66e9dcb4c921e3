package inference

import (
	"context"

	"github.com/kailas-cloud/ingestprep/internal/domain/value"
)

// Inferencer runs model inference over an ordered list of texts, returning
// exactly one result per input, in input order.
type Inferencer interface {
	Infer(ctx context.Context, texts []string) ([]value.Value, error)
}

// SettingsReader supplies per-index limits from the document store.
type SettingsReader interface {
	MaxNestingDepth(ctx context.Context, indexName string) (int, error)
}
