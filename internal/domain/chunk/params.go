package chunk

import (
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/ingestprep/internal/domain"
)

// Parameter maps come straight out of YAML or JSON configuration, so numeric
// values may arrive as int, int64 or float64 depending on the decoder.

func stringParam(params map[string]any, key, def string) (string, error) {
	raw, ok := params[key]
	if !ok {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("parameter [%s] must be of string type: %w", key, domain.ErrInvalidConfig)
	}
	return s, nil
}

func nonBlankStringParam(params map[string]any, key, def string) (string, error) {
	s, err := stringParam(params, key, def)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("parameter [%s] should not be empty: %w", key, domain.ErrInvalidConfig)
	}
	return s, nil
}

func numberParam(params map[string]any, key string) (float64, bool, error) {
	raw, ok := params[key]
	if !ok {
		return 0, false, nil
	}
	switch n := raw.(type) {
	case int:
		return float64(n), true, nil
	case int64:
		return float64(n), true, nil
	case float64:
		return n, true, nil
	case float32:
		return float64(n), true, nil
	default:
		return 0, false, fmt.Errorf("parameter [%s] cannot be cast to a number: %w", key, domain.ErrInvalidConfig)
	}
}

func intParam(params map[string]any, key string, def int) (int, error) {
	f, ok, err := numberParam(params, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("parameter [%s] must be an integer: %w", key, domain.ErrInvalidConfig)
	}
	return int(f), nil
}

func positiveIntParam(params map[string]any, key string, def int) (int, error) {
	n, err := intParam(params, key, def)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("parameter [%s] must be positive: %w", key, domain.ErrInvalidConfig)
	}
	return n, nil
}

func rateParam(params map[string]any, key string, def, min, max float64) (float64, error) {
	f, ok, err := numberParam(params, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	if f < min || f > max {
		return 0, fmt.Errorf("parameter [%s] must be between %v and %v: %w", key, min, max, domain.ErrInvalidConfig)
	}
	return f, nil
}

// ParseMaxChunkLimit reads the processor-level max_chunk_limit parameter.
// Absent means disabled; the disabled sentinel is accepted explicitly; any
// other non-positive value is invalid.
func ParseMaxChunkLimit(params map[string]any) (int, error) {
	limit, err := intParam(params, MaxChunkLimitField, DisabledChunkLimit)
	if err != nil {
		return 0, err
	}
	if limit <= 0 && limit != DisabledChunkLimit {
		return 0, fmt.Errorf("parameter [%s] must be a positive integer: %w", MaxChunkLimitField, domain.ErrInvalidConfig)
	}
	return limit, nil
}
