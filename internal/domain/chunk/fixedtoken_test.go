package chunk

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/ingestprep/internal/domain"
)

// fakeTokenizer splits on single spaces, good enough to pin down the
// window arithmetic without pulling in the real analyzers.
type fakeTokenizer struct {
	err error
}

func (f fakeTokenizer) Tokenize(content, _ string, maxTokenCount int) ([]Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	var tokens []Token
	start := -1
	for i, r := range content {
		if r == ' ' {
			if start >= 0 {
				tokens = append(tokens, Token{Term: content[start:i], Start: start})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Term: content[start:], Start: start})
	}
	if maxTokenCount > 0 && len(tokens) > maxTokenCount {
		return nil, domain.NewTokenCountExceeded(maxTokenCount)
	}
	return tokens, nil
}

func TestNewFixedTokenLength_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
	}{
		{"unknown tokenizer", map[string]any{TokenizerField: "ngram"}},
		{"non-positive token limit", map[string]any{TokenLimitField: 0}},
		{"negative token limit", map[string]any{TokenLimitField: -10}},
		{"fractional token limit", map[string]any{TokenLimitField: 2.5}},
		{"overlap rate above max", map[string]any{OverlapRateField: 0.6}},
		{"overlap rate negative", map[string]any{OverlapRateField: -0.1}},
		{"overlap rate non-numeric", map[string]any{OverlapRateField: "half"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFixedTokenLength(tt.params, fakeTokenizer{})
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNewFixedTokenLength_RequiresTokenizer(t *testing.T) {
	_, err := NewFixedTokenLength(map[string]any{}, nil)
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestFixedTokenLengthChunker_Windows(t *testing.T) {
	c, err := NewFixedTokenLength(map[string]any{TokenLimitField: 3}, fakeTokenizer{})
	if err != nil {
		t.Fatalf("NewFixedTokenLength: %v", err)
	}

	content := "one two three four five six seven eight nine ten"
	got, err := c.Chunk(content, Runtime{PendingStrings: 1})
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}

	// Each window spans from its first token's offset (char 0 for the first
	// chunk) to the offset of the first token past the window, so trailing
	// spaces stay with the preceding chunk.
	want := []string{"one two three ", "four five six ", "seven eight nine ", "ten"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk() = %q, want %q", got, want)
	}
}

func TestFixedTokenLengthChunker_Overlap(t *testing.T) {
	c, err := NewFixedTokenLength(map[string]any{
		TokenLimitField:  4,
		OverlapRateField: 0.5,
	}, fakeTokenizer{})
	if err != nil {
		t.Fatalf("NewFixedTokenLength: %v", err)
	}

	content := "one two three four five six seven eight nine ten"
	got, err := c.Chunk(content, Runtime{PendingStrings: 1})
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}

	// Step is tokenLimit-overlap = 2, so consecutive windows share 2 tokens.
	want := []string{
		"one two three four ",
		"three four five six ",
		"five six seven eight ",
		"seven eight nine ten",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk() = %q, want %q", got, want)
	}
}

func TestFixedTokenLengthChunker_ShortContent(t *testing.T) {
	c, err := NewFixedTokenLength(map[string]any{TokenLimitField: 10}, fakeTokenizer{})
	if err != nil {
		t.Fatalf("NewFixedTokenLength: %v", err)
	}

	got, err := c.Chunk("just three tokens", Runtime{PendingStrings: 1})
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	want := []string{"just three tokens"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk() = %q, want %q", got, want)
	}
}

func TestFixedTokenLengthChunker_EmptyContent(t *testing.T) {
	c, err := NewFixedTokenLength(map[string]any{}, fakeTokenizer{})
	if err != nil {
		t.Fatalf("NewFixedTokenLength: %v", err)
	}
	got, err := c.Chunk("", Runtime{PendingStrings: 1})
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Chunk() = %q, want no chunks", got)
	}
}

func TestFixedTokenLengthChunker_GovernorMergesTail(t *testing.T) {
	c, err := NewFixedTokenLength(map[string]any{TokenLimitField: 3}, fakeTokenizer{})
	if err != nil {
		t.Fatalf("NewFixedTokenLength: %v", err)
	}

	content := "one two three four five six seven eight nine ten"
	rt := Runtime{Governor: NewGovernor(2), PendingStrings: 1}
	got, err := c.Chunk(content, rt)
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}

	want := []string{"one two three ", "four five six seven eight nine ten"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk() = %q, want %q", got, want)
	}
}

func TestFixedTokenLengthChunker_ChunksCoverContent(t *testing.T) {
	c, err := NewFixedTokenLength(map[string]any{TokenLimitField: 2}, fakeTokenizer{})
	if err != nil {
		t.Fatalf("NewFixedTokenLength: %v", err)
	}

	content := "  spaced   out   content with   odd   gaps  "
	got, err := c.Chunk(content, Runtime{PendingStrings: 1})
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}

	// Without overlap the chunks partition the content exactly.
	joined := ""
	for _, chunk := range got {
		joined += chunk
	}
	if joined != content {
		t.Errorf("concatenated chunks = %q, want %q", joined, content)
	}
}

func TestFixedTokenLengthChunker_TokenizeError(t *testing.T) {
	tokErr := domain.NewTokenCountExceeded(5)
	c, err := NewFixedTokenLength(map[string]any{}, fakeTokenizer{err: tokErr})
	if err != nil {
		t.Fatalf("NewFixedTokenLength: %v", err)
	}
	_, err = c.Chunk("anything", Runtime{PendingStrings: 1})
	if !errors.Is(err, domain.ErrTokenization) {
		t.Errorf("err = %v, want ErrTokenization", err)
	}
}
