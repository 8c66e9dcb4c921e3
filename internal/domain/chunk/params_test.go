package chunk

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/ingestprep/internal/domain"
)

func TestParseMaxChunkLimit(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]any
		want    int
		wantErr bool
	}{
		{"absent defaults to disabled", map[string]any{}, DisabledChunkLimit, false},
		{"explicit sentinel", map[string]any{MaxChunkLimitField: -1}, DisabledChunkLimit, false},
		{"positive", map[string]any{MaxChunkLimitField: 50}, 50, false},
		{"yaml float", map[string]any{MaxChunkLimitField: float64(50)}, 50, false},
		{"zero invalid", map[string]any{MaxChunkLimitField: 0}, 0, true},
		{"negative invalid", map[string]any{MaxChunkLimitField: -5}, 0, true},
		{"fractional invalid", map[string]any{MaxChunkLimitField: 1.5}, 0, true},
		{"string invalid", map[string]any{MaxChunkLimitField: "10"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMaxChunkLimit(tt.params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMaxChunkLimit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, domain.ErrInvalidConfig) {
					t.Errorf("error %v does not wrap ErrInvalidConfig", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseMaxChunkLimit() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNew_UnknownAlgorithm(t *testing.T) {
	_, err := New("sentence", map[string]any{}, nil)
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestNew_Delimiter(t *testing.T) {
	c, err := New(AlgorithmDelimiter, map[string]any{DelimiterField: "."}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.(*DelimiterChunker); !ok {
		t.Errorf("New returned %T, want *DelimiterChunker", c)
	}
}

func TestNew_FixedTokenLength(t *testing.T) {
	c, err := New(AlgorithmFixedTokenLength, map[string]any{}, fakeTokenizer{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.(*FixedTokenLengthChunker); !ok {
		t.Errorf("New returned %T, want *FixedTokenLengthChunker", c)
	}
}
