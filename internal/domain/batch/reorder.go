// Package batch holds the pieces of multi-document inference batching:
// length-based reordering of inference inputs and per-document outcome
// reporting.
package batch

import "sort"

// Mapping is the index correspondence between the sorted order texts were
// sent for inference in and their original submission order. It is built for
// one batch and discarded afterwards.
type Mapping struct {
	original []int // original[i] = pre-sort index of sorted position i
}

// SortByLength returns texts sorted by ascending length together with the
// mapping needed to restore original order. The sort is stable: equal-length
// texts keep their original relative order.
func SortByLength(texts []string) ([]string, Mapping) {
	idx := make([]int, len(texts))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return len(texts[idx[a]]) < len(texts[idx[b]])
	})

	sorted := make([]string, len(texts))
	for i, orig := range idx {
		sorted[i] = texts[orig]
	}
	return sorted, Mapping{original: idx}
}

// Restore applies the inverse permutation to results obtained in sorted
// order, returning them in original submission order. The result count must
// match the sorted input count.
func Restore[T any](m Mapping, results []T) []T {
	restored := make([]T, len(results))
	for i, r := range results {
		restored[m.original[i]] = r
	}
	return restored
}
