package chunk

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/ingestprep/internal/domain"
)

// Fixed-token-length algorithm parameters.
const (
	TokenizerField   = "tokenizer"
	TokenLimitField  = "token_limit"
	OverlapRateField = "overlap_rate"

	DefaultTokenizer   = "standard"
	DefaultTokenLimit  = 384
	DefaultOverlapRate = 0.0

	maxOverlapRate = 0.5
)

// wordTokenizers is the allow-list of word-class tokenizers the fixed-token
// algorithm accepts. Character-level tokenizers would defeat the token-limit
// semantics.
var wordTokenizers = map[string]bool{
	"standard":   true,
	"letter":     true,
	"lowercase":  true,
	"whitespace": true,
}

// FixedTokenLengthChunker splits content into windows of a fixed number of
// tokens, optionally overlapping. Chunk boundaries are character offsets into
// the original string, so whitespace and punctuation survive exactly.
type FixedTokenLengthChunker struct {
	tokenizer   string
	tokenLimit  int
	overlapRate float64
	tok         Tokenizer
}

// NewFixedTokenLength creates a fixed-token-length chunker.
func NewFixedTokenLength(params map[string]any, tok Tokenizer) (*FixedTokenLengthChunker, error) {
	if tok == nil {
		return nil, fmt.Errorf("fixed token length chunker requires a tokenizer: %w", domain.ErrInvalidConfig)
	}
	tokenizer, err := stringParam(params, TokenizerField, DefaultTokenizer)
	if err != nil {
		return nil, err
	}
	if !wordTokenizers[tokenizer] {
		return nil, fmt.Errorf(
			"tokenizer [%s] is not supported for [%s] algorithm, must be a word tokenizer: %w",
			tokenizer, AlgorithmFixedTokenLength, domain.ErrInvalidConfig,
		)
	}
	tokenLimit, err := positiveIntParam(params, TokenLimitField, DefaultTokenLimit)
	if err != nil {
		return nil, err
	}
	overlapRate, err := rateParam(params, OverlapRateField, DefaultOverlapRate, 0, maxOverlapRate)
	if err != nil {
		return nil, err
	}
	return &FixedTokenLengthChunker{
		tokenizer:   tokenizer,
		tokenLimit:  tokenLimit,
		overlapRate: overlapRate,
		tok:         tok,
	}, nil
}

// Chunk tokenizes content and emits windows of tokenLimit tokens, each chunk
// spanning from the start offset of its first token (character 0 for the very
// first chunk) to the start offset of the first token past the window, or the
// end of content for the final window. Consecutive windows overlap by
// floor(tokenLimit*overlapRate) tokens, clamped to tokenLimit-1. The governor
// merge policy applies at each iteration.
func (c *FixedTokenLengthChunker) Chunk(content string, rt Runtime) ([]string, error) {
	tokens, err := c.tok.Tokenize(content, c.tokenizer, rt.MaxTokenCount)
	if err != nil {
		return nil, fmt.Errorf("tokenize content: %w", err)
	}

	overlap := int(math.Floor(float64(c.tokenLimit) * c.overlapRate))
	if overlap > c.tokenLimit-1 {
		overlap = c.tokenLimit - 1
	}

	var chunks []string
	startToken := 0
	for startToken < len(tokens) {
		startOffset := 0
		if startToken > 0 {
			startOffset = tokens[startToken].Start
		}
		if rt.Governor.Reached(len(chunks), rt.PendingStrings) {
			chunks = append(chunks, content[startOffset:])
			break
		}
		if startToken+c.tokenLimit >= len(tokens) {
			chunks = append(chunks, content[startOffset:])
			break
		}
		endOffset := tokens[startToken+c.tokenLimit].Start
		chunks = append(chunks, content[startOffset:endOffset])
		startToken += c.tokenLimit - overlap
	}
	return chunks, nil
}
