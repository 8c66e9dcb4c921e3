// Package settings reads per-index limits (nesting depth, token count) from
// the document store, falling back to environment-level defaults when an
// index has no stored settings yet.
package settings

import (
	"context"
	"fmt"
	"strconv"
)

// Hash field names of an index settings entry.
const (
	fieldMaxNestingDepth = "max_nesting_depth"
	fieldMaxTokenCount   = "max_token_count"
)

// DefaultKeyPrefix prefixes index settings keys in the store.
const DefaultKeyPrefix = "ingestprep:index:"

// store is the consumer interface for settings hashes (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Defaults are the environment-level fallbacks used when an index does not
// exist or omits a field.
type Defaults struct {
	MaxNestingDepth int
	MaxTokenCount   int
}

// Repo implements the settings reader contracts of the processor usecases.
type Repo struct {
	store     store
	keyPrefix string
	defaults  Defaults
}

// New creates a settings repository.
func New(s store, defaults Defaults) *Repo {
	return &Repo{store: s, keyPrefix: DefaultKeyPrefix, defaults: defaults}
}

// WithKeyPrefix overrides the settings key prefix.
func (r *Repo) WithKeyPrefix(prefix string) *Repo {
	if prefix != "" {
		r.keyPrefix = prefix
	}
	return r
}

// MaxNestingDepth returns the index's nesting depth limit.
func (r *Repo) MaxNestingDepth(ctx context.Context, indexName string) (int, error) {
	return r.field(ctx, indexName, fieldMaxNestingDepth, r.defaults.MaxNestingDepth)
}

// MaxTokenCount returns the index's tokenizer ceiling.
func (r *Repo) MaxTokenCount(ctx context.Context, indexName string) (int, error) {
	return r.field(ctx, indexName, fieldMaxTokenCount, r.defaults.MaxTokenCount)
}

func (r *Repo) field(ctx context.Context, indexName, field string, def int) (int, error) {
	m, err := r.store.HGetAll(ctx, r.keyPrefix+indexName)
	if err != nil {
		return 0, fmt.Errorf("read settings for index %s: %w", indexName, err)
	}
	raw, ok := m[field]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s for index %s: %w", field, indexName, err)
	}
	return n, nil
}

// Static is a settings reader with fixed limits, for wiring without a store.
type Static struct {
	Defaults
}

// MaxNestingDepth returns the static nesting depth limit.
func (s Static) MaxNestingDepth(_ context.Context, _ string) (int, error) {
	return s.Defaults.MaxNestingDepth, nil
}

// MaxTokenCount returns the static tokenizer ceiling.
func (s Static) MaxTokenCount(_ context.Context, _ string) (int, error) {
	return s.Defaults.MaxTokenCount, nil
}
