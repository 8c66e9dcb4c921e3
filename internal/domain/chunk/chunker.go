// Package chunk implements the text chunking algorithms used at ingest time:
// delimiter splitting and fixed-token-length windows, both governed by a
// shared per-document chunk ceiling.
package chunk

import (
	"fmt"

	"github.com/kailas-cloud/ingestprep/internal/domain"
)

// Algorithm names.
const (
	AlgorithmDelimiter        = "delimiter"
	AlgorithmFixedTokenLength = "fixed_token_length"
)

// Parameter field names shared across algorithms.
const (
	MaxChunkLimitField = "max_chunk_limit"
)

// Token is one tokenizer term with its start byte offset in the source string.
type Token struct {
	Term  string
	Start int
}

// Tokenizer supplies ordered tokens with offsets for a string. maxTokenCount
// is a ceiling on how many tokens the tokenizer may emit before failing.
type Tokenizer interface {
	Tokenize(content, name string, maxTokenCount int) ([]Token, error)
}

// Runtime carries the per-call state a chunker needs: the document's chunk
// governor, the number of non-empty strings still waiting to be chunked in
// this document (the current one included), and the tokenizer ceiling for
// the fixed-token algorithm.
type Runtime struct {
	Governor       *Governor
	PendingStrings int
	MaxTokenCount  int
}

// Chunker splits one string into an ordered sequence of substrings.
type Chunker interface {
	Chunk(content string, rt Runtime) ([]string, error)
}

// New creates a chunker for the named algorithm with validated parameters.
// The fixed-token algorithm requires a tokenizer collaborator; the delimiter
// algorithm ignores it.
func New(algorithm string, params map[string]any, tok Tokenizer) (Chunker, error) {
	switch algorithm {
	case AlgorithmDelimiter:
		return NewDelimiter(params)
	case AlgorithmFixedTokenLength:
		return NewFixedTokenLength(params, tok)
	default:
		return nil, fmt.Errorf(
			"chunker algorithm [%s] is not supported, supported algorithms are [%s, %s]: %w",
			algorithm, AlgorithmDelimiter, AlgorithmFixedTokenLength, domain.ErrInvalidConfig,
		)
	}
}
