// Package fieldmap implements validation and traversal of nested field-map
// configurations over document trees.
//
// A field map is a value.Map whose leaf entries are output-key strings and
// whose non-leaf entries are nested field maps mirroring document nesting.
// Extraction of leaf texts and scatter of inference results both run through
// the one Walk function below: the order-identity between the two directions
// is load-bearing (results are matched to leaves purely by position), so
// there must never be a second, independently written traversal.
package fieldmap

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/ingestprep/internal/domain"
	"github.com/kailas-cloud/ingestprep/internal/domain/value"
)

// LeafFunc visits one leaf position of a field-map traversal.
// sourceKey is the document key the leaf was read from, targetKey the
// field-map output key, and leaf the document value (String or List).
// A non-nil return value is written at targetKey in the enclosing map;
// nil means no write.
type LeafFunc func(sourceKey, targetKey string, leaf value.Value) (value.Value, error)

// Walk traverses fm entries in insertion order against doc, calling fn for
// every leaf entry whose source value is present. Nested field maps recurse
// into map values directly and into list values element by element, each
// element fully visited before the next (pre-order).
func Walk(fm, doc *value.Map, fn LeafFunc) error {
	if fm == nil || doc == nil {
		return nil
	}
	for _, key := range fm.Keys() {
		target, _ := fm.Get(key)
		switch tv := target.(type) {
		case *value.Map:
			src, ok := doc.Get(key)
			if !ok {
				continue
			}
			switch sv := src.(type) {
			case *value.Map:
				if err := Walk(tv, sv, fn); err != nil {
					return err
				}
			case value.List:
				for _, elem := range sv {
					if em, ok := elem.(*value.Map); ok {
						if err := Walk(tv, em, fn); err != nil {
							return err
						}
					}
				}
			}
		case value.String:
			src, ok := doc.Get(key)
			if !ok {
				continue
			}
			if _, isNull := src.(value.Null); isNull {
				continue
			}
			out, err := fn(key, string(tv), src)
			if err != nil {
				return err
			}
			if out != nil {
				doc.Set(string(tv), out)
			}
		default:
			return fmt.Errorf("field_map entry [%s] is neither string nor map: %w", key, domain.ErrInvalidConfig)
		}
	}
	return nil
}

// ValidateConfig checks a field-map configuration at processor construction
// time: non-empty, no blank source keys, leaf target keys non-blank, nested
// maps valid recursively.
func ValidateConfig(fm *value.Map) error {
	if fm.Len() == 0 {
		return fmt.Errorf("field_map has no entries: %w", domain.ErrInvalidConfig)
	}
	for _, key := range fm.Keys() {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("field_map has blank source key: %w", domain.ErrInvalidConfig)
		}
		entry, _ := fm.Get(key)
		switch ev := entry.(type) {
		case value.String:
			if strings.TrimSpace(string(ev)) == "" {
				return fmt.Errorf("field_map entry [%s] has blank target key: %w", key, domain.ErrInvalidConfig)
			}
		case *value.Map:
			if err := ValidateConfig(ev); err != nil {
				return err
			}
		default:
			return fmt.Errorf("field_map entry [%s] must be a target key or a nested map: %w", key, domain.ErrInvalidConfig)
		}
	}
	return nil
}

// Validate checks that every document value reachable through fm is
// processable: strings and nested maps/lists only, no null list elements, no
// nested lists, nesting no deeper than maxDepth. Depth counting starts at 1
// at the field map's first level. With allowEmpty false, blank strings are
// rejected as well.
func Validate(fm, doc *value.Map, maxDepth int, allowEmpty bool) error {
	return validateMap("field_map", doc, fm, 1, maxDepth, allowEmpty)
}

func validateMap(sourceKey string, src *value.Map, fm value.Value, depth, maxDepth int, allowEmpty bool) error {
	if src == nil {
		return nil
	}
	if depth > maxDepth {
		return domain.NewDepthLimit(sourceKey, maxDepth)
	}
	fmMap, ok := fm.(*value.Map)
	if !ok {
		return fmt.Errorf(
			"[%s] configuration doesn't match actual value type, configuration is not a map: %w",
			sourceKey, domain.ErrInvalidDocument,
		)
	}
	for _, key := range fmMap.Keys() {
		nextFM, _ := fmMap.Get(key)
		next, ok := src.Get(key)
		if !ok {
			continue
		}
		switch nv := next.(type) {
		case value.Null:
			// a missing or null mapped value is skipped, not an error
		case value.List:
			if err := validateList(key, nv, nextFM, depth+1, maxDepth, allowEmpty); err != nil {
				return err
			}
		case *value.Map:
			if err := validateMap(key, nv, nextFM, depth+1, maxDepth, allowEmpty); err != nil {
				return err
			}
		case value.String:
			if !allowEmpty && strings.TrimSpace(string(nv)) == "" {
				return fmt.Errorf("map type field [%s] has empty string value, cannot process it: %w",
					key, domain.ErrInvalidDocument)
			}
		default:
			return fmt.Errorf("map type field [%s] is neither string nor nested type, cannot process it: %w",
				key, domain.ErrInvalidDocument)
		}
	}
	return nil
}

func validateList(sourceKey string, src value.List, fm value.Value, depth, maxDepth int, allowEmpty bool) error {
	if depth > maxDepth {
		return domain.NewDepthLimit(sourceKey, maxDepth)
	}
	var sawString, sawMap bool
	for _, elem := range src {
		switch ev := elem.(type) {
		case nil, value.Null:
			return fmt.Errorf("list type field [%s] has null, cannot process it: %w",
				sourceKey, domain.ErrInvalidDocument)
		case value.List:
			return fmt.Errorf("list type field [%s] is nested list type, cannot process it: %w",
				sourceKey, domain.ErrInvalidDocument)
		case *value.Map:
			sawMap = true
			if err := validateMap(sourceKey, ev, fm, depth+1, maxDepth, allowEmpty); err != nil {
				return err
			}
		case value.String:
			sawString = true
			if !allowEmpty && strings.TrimSpace(string(ev)) == "" {
				return fmt.Errorf("list type field [%s] has empty string, cannot process it: %w",
					sourceKey, domain.ErrInvalidDocument)
			}
		default:
			return fmt.Errorf("list type field [%s] has non string value, cannot process it: %w",
				sourceKey, domain.ErrInvalidDocument)
		}
		if sawString && sawMap {
			return fmt.Errorf("list type field [%s] mixes string and map elements, cannot process it: %w",
				sourceKey, domain.ErrInvalidDocument)
		}
	}
	return nil
}

// IsStringList reports whether every element of l is a String.
// An empty list counts as a string list.
func IsStringList(l value.List) bool {
	for _, elem := range l {
		if _, ok := elem.(value.String); !ok {
			return false
		}
	}
	return true
}

// Extract returns the leaf texts of doc selected by fm in traversal order.
// A String leaf contributes one text; a list of strings contributes every
// element in list order. Lists holding anything but strings are skipped, as
// are missing and null values.
func Extract(fm, doc *value.Map) ([]string, error) {
	var texts []string
	err := Walk(fm, doc, func(_, _ string, leaf value.Value) (value.Value, error) {
		switch lv := leaf.(type) {
		case value.String:
			texts = append(texts, string(lv))
		case value.List:
			if !IsStringList(lv) {
				return nil, nil
			}
			for _, elem := range lv {
				texts = append(texts, string(elem.(value.String)))
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return texts, nil
}

// Scatter writes results back into doc at the target keys named by fm,
// consuming exactly one result per leaf text position in the same order
// Extract produced them. String leaves receive their result directly; list
// leaves receive a list of single-key maps {nestedListKey: result}, one per
// element, preserving list order.
func Scatter(fm, doc *value.Map, results []value.Value, nestedListKey string) error {
	next := 0
	pop := func() (value.Value, error) {
		if next >= len(results) {
			return nil, fmt.Errorf("ran out of results at position %d: %w", next, domain.ErrInferenceMismatch)
		}
		r := results[next]
		next++
		return r, nil
	}
	err := Walk(fm, doc, func(_, _ string, leaf value.Value) (value.Value, error) {
		switch lv := leaf.(type) {
		case value.String:
			return pop()
		case value.List:
			if !IsStringList(lv) {
				return nil, nil
			}
			out := make(value.List, 0, len(lv))
			for range lv {
				r, err := pop()
				if err != nil {
					return nil, err
				}
				wrapped := value.NewMap()
				wrapped.Set(nestedListKey, r)
				out = append(out, wrapped)
			}
			return out, nil
		}
		return nil, nil
	})
	if err != nil {
		return err
	}
	if next != len(results) {
		return fmt.Errorf("consumed %d of %d results: %w", next, len(results), domain.ErrInferenceMismatch)
	}
	return nil
}
