package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig signals a bad processor configuration (unknown algorithm,
	// mistyped or out-of-range parameter). Raised at construction time, never retried.
	ErrInvalidConfig = errors.New("invalid processor configuration")
	// ErrInvalidDocument signals a document value the field map cannot process.
	ErrInvalidDocument = errors.New("invalid document value")
	// ErrDepthExceeded signals a nested field deeper than the index allows.
	ErrDepthExceeded = errors.New("depth limit exceeded")
	// ErrTokenization signals a tokenizer failure.
	ErrTokenization = errors.New("tokenization failed")
	// ErrInferenceProvider signals an inference provider failure.
	ErrInferenceProvider = errors.New("inference provider error")
	// ErrInferenceMismatch signals a result count that does not match the input count.
	ErrInferenceMismatch = errors.New("inference result count mismatch")
	// ErrIndexNotFound signals a missing index settings entry.
	ErrIndexNotFound = errors.New("index not found")
)

// DepthLimitError wraps ErrDepthExceeded with the offending field key and the limit.
type DepthLimitError struct {
	Key      string
	MaxDepth int
}

func (e *DepthLimitError) Error() string {
	return fmt.Sprintf("map type field [%s] reaches max depth limit [%d], cannot process it", e.Key, e.MaxDepth)
}

func (e *DepthLimitError) Unwrap() error { return ErrDepthExceeded }

// NewDepthLimit creates a depth limit error for the given field key.
func NewDepthLimit(key string, maxDepth int) error {
	return &DepthLimitError{Key: key, MaxDepth: maxDepth}
}

// TokenCountError wraps ErrTokenization with the token ceiling that was hit.
type TokenCountError struct {
	MaxTokenCount int
}

func (e *TokenCountError) Error() string {
	return fmt.Sprintf("%s: token count exceeds max token count [%d]", ErrTokenization.Error(), e.MaxTokenCount)
}

func (e *TokenCountError) Unwrap() error { return ErrTokenization }

// NewTokenCountExceeded creates a token ceiling error.
func NewTokenCountExceeded(maxTokenCount int) error {
	return &TokenCountError{MaxTokenCount: maxTokenCount}
}
