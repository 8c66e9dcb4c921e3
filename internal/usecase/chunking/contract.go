package chunking

import "context"

// SettingsReader supplies per-index limits from the document store, falling
// back to environment-level defaults when the index does not exist yet.
type SettingsReader interface {
	MaxNestingDepth(ctx context.Context, indexName string) (int, error)
	MaxTokenCount(ctx context.Context, indexName string) (int, error)
}
