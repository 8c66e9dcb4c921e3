package batch

import (
	"reflect"
	"testing"
)

func TestSortByLength(t *testing.T) {
	texts := []string{"medium one", "a", "the longest text of them all", "bb"}

	sorted, _ := SortByLength(texts)

	want := []string{"a", "bb", "medium one", "the longest text of them all"}
	if !reflect.DeepEqual(sorted, want) {
		t.Errorf("sorted = %v, want %v", sorted, want)
	}
}

func TestSortByLength_StableForEqualLengths(t *testing.T) {
	texts := []string{"bb", "aa", "cc"}

	sorted, m := SortByLength(texts)

	// Equal lengths keep submission order.
	want := []string{"bb", "aa", "cc"}
	if !reflect.DeepEqual(sorted, want) {
		t.Errorf("sorted = %v, want %v", sorted, want)
	}
	restored := Restore(m, sorted)
	if !reflect.DeepEqual(restored, texts) {
		t.Errorf("restored = %v, want %v", restored, texts)
	}
}

func TestRestore_InvertsSort(t *testing.T) {
	texts := []string{"ccc", "a", "bb", "", "dddd"}

	sorted, m := SortByLength(texts)
	restored := Restore(m, sorted)

	if !reflect.DeepEqual(restored, texts) {
		t.Errorf("restored = %v, want %v", restored, texts)
	}
}

func TestRestore_GenericOverResults(t *testing.T) {
	texts := []string{"long text here", "a", "midway"}

	sorted, m := SortByLength(texts)

	// Results arrive in sorted order; tag each with its sorted-order text.
	type result struct{ source string }
	results := make([]result, len(sorted))
	for i, s := range sorted {
		results[i] = result{source: s}
	}

	restored := Restore(m, results)
	for i, r := range restored {
		if r.source != texts[i] {
			t.Errorf("restored[%d] = %q, want %q", i, r.source, texts[i])
		}
	}
}

func TestSortByLength_Empty(t *testing.T) {
	sorted, m := SortByLength(nil)
	if len(sorted) != 0 {
		t.Errorf("sorted = %v, want empty", sorted)
	}
	if out := Restore(m, []string{}); len(out) != 0 {
		t.Errorf("restored = %v, want empty", out)
	}
}
