package analysis

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/ingestprep/internal/domain"
	"github.com/kailas-cloud/ingestprep/internal/domain/chunk"
)

func terms(tokens []chunk.Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Term
	}
	return out
}

func TestTokenize_Terms(t *testing.T) {
	content := "It's 4 o'clock"

	tests := []struct {
		tokenizer string
		want      []string
	}{
		{TokenizerStandard, []string{"It", "s", "4", "o", "clock"}},
		{TokenizerLetter, []string{"It", "s", "o", "clock"}},
		{TokenizerLowercase, []string{"it", "s", "o", "clock"}},
		{TokenizerWhitespace, []string{"It's", "4", "o'clock"}},
	}
	for _, tt := range tests {
		t.Run(tt.tokenizer, func(t *testing.T) {
			tokens, err := Tokenize(content, tt.tokenizer, 0)
			if err != nil {
				t.Fatalf("Tokenize: %v", err)
			}
			got := terms(tokens)
			if len(got) != len(tt.want) {
				t.Fatalf("terms = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("term[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTokenize_Offsets(t *testing.T) {
	tokens, err := Tokenize("  one two ", TokenizerStandard, 0)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if tokens[0].Start != 2 || tokens[1].Start != 6 {
		t.Errorf("offsets = %d, %d, want 2, 6", tokens[0].Start, tokens[1].Start)
	}
}

func TestTokenize_ByteOffsetsMultiByte(t *testing.T) {
	// é is two bytes; offsets must stay byte-accurate so chunk boundaries
	// slice the original string correctly.
	tokens, err := Tokenize("héllo wörld", TokenizerStandard, 0)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if tokens[0].Term != "héllo" || tokens[0].Start != 0 {
		t.Errorf("token[0] = %q@%d, want héllo@0", tokens[0].Term, tokens[0].Start)
	}
	if tokens[1].Term != "wörld" || tokens[1].Start != 7 {
		t.Errorf("token[1] = %q@%d, want wörld@7", tokens[1].Term, tokens[1].Start)
	}
}

func TestTokenize_MaxTokenCount(t *testing.T) {
	_, err := Tokenize("one two three four", TokenizerStandard, 3)
	if !errors.Is(err, domain.ErrTokenization) {
		t.Fatalf("err = %v, want ErrTokenization", err)
	}
	var tce *domain.TokenCountError
	if !errors.As(err, &tce) {
		t.Fatalf("err %v is not a TokenCountError", err)
	}
	if tce.MaxTokenCount != 3 {
		t.Errorf("MaxTokenCount = %d, want 3", tce.MaxTokenCount)
	}

	if _, err := Tokenize("one two three", TokenizerStandard, 3); err != nil {
		t.Errorf("at the ceiling: unexpected error %v", err)
	}
}

func TestTokenize_UnknownTokenizer(t *testing.T) {
	_, err := Tokenize("text", "ngram", 0)
	if !errors.Is(err, domain.ErrTokenization) {
		t.Errorf("err = %v, want ErrTokenization", err)
	}
}

func TestTokenize_Empty(t *testing.T) {
	tokens, err := Tokenize("", TokenizerStandard, 0)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("tokens = %v, want none", tokens)
	}
}

func TestRegistry_ImplementsTokenizer(t *testing.T) {
	var _ chunk.Tokenizer = Registry{}

	tokens, err := Registry{}.Tokenize("a b", TokenizerWhitespace, 0)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(tokens) != 2 {
		t.Errorf("got %d tokens, want 2", len(tokens))
	}
}
