// Package analysis provides the word tokenizers the fixed-token-length
// chunker consumes: ordered terms with start byte offsets into the source
// string.
package analysis

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/ingestprep/internal/domain"
	"github.com/kailas-cloud/ingestprep/internal/domain/chunk"
)

// Tokenizer names.
const (
	TokenizerStandard   = "standard"
	TokenizerLetter     = "letter"
	TokenizerLowercase  = "lowercase"
	TokenizerWhitespace = "whitespace"
)

// Registry adapts the package tokenizers to the chunker's collaborator
// contract.
type Registry struct{}

// Tokenize implements chunk.Tokenizer.
func (Registry) Tokenize(content, name string, maxTokenCount int) ([]chunk.Token, error) {
	return Tokenize(content, name, maxTokenCount)
}

// Tokenize splits content with the named tokenizer. maxTokenCount is a
// ceiling on the number of emitted tokens; exceeding it is an error
// (non-positive means no ceiling). Offsets are byte offsets.
func Tokenize(content, name string, maxTokenCount int) ([]chunk.Token, error) {
	var inToken func(r rune) bool
	lower := false
	switch name {
	case TokenizerStandard:
		inToken = func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }
	case TokenizerLetter:
		inToken = unicode.IsLetter
	case TokenizerLowercase:
		inToken = unicode.IsLetter
		lower = true
	case TokenizerWhitespace:
		inToken = func(r rune) bool { return !unicode.IsSpace(r) }
	default:
		return nil, fmt.Errorf("tokenizer [%s] is not supported: %w", name, domain.ErrTokenization)
	}

	var tokens []chunk.Token
	start := -1
	flush := func(end int) error {
		if start < 0 {
			return nil
		}
		if maxTokenCount > 0 && len(tokens) >= maxTokenCount {
			return domain.NewTokenCountExceeded(maxTokenCount)
		}
		term := content[start:end]
		if lower {
			term = strings.ToLower(term)
		}
		tokens = append(tokens, chunk.Token{Term: term, Start: start})
		start = -1
		return nil
	}

	for i, r := range content {
		if inToken(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if err := flush(i); err != nil {
			return nil, err
		}
	}
	if err := flush(len(content)); err != nil {
		return nil, err
	}
	return tokens, nil
}
