// Package value models document content and field-map configuration as a
// recursive tagged union. Maps preserve insertion order, which is what makes
// pre-order traversal reproducible across extract and scatter.
package value

// Value is one node of a document or field-map tree.
// Concrete types: String, Number, Bool, Null, List, *Map.
type Value interface {
	isValue()
}

// String is a text leaf.
type String string

// Number is a numeric leaf (documents are JSON, so numbers must be representable).
type Number float64

// Bool is a boolean leaf.
type Bool bool

// Null is an explicit JSON null.
type Null struct{}

// List is an ordered sequence of values.
type List []Value

// Map is a string-keyed mapping that preserves insertion order.
type Map struct {
	keys  []string
	items map[string]Value
}

func (String) isValue() {}
func (Number) isValue() {}
func (Bool) isValue()   {}
func (Null) isValue()   {}
func (List) isValue()   {}
func (*Map) isValue()   {}

// NewMap creates an empty ordered map.
func NewMap() *Map {
	return &Map{items: make(map[string]Value)}
}

// Set stores v under key, appending the key on first insertion.
func (m *Map) Set(key string, v Value) {
	if _, ok := m.items[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.items[key] = v
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.items[key]
	return v, ok
}

// Keys returns the keys in insertion order. The returned slice is shared; do not mutate.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Equal reports deep equality of two values. Map comparison is order-sensitive.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Null:
		_, ok := b.(Null)
		return ok
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Map:
		bv, ok := b.(*Map)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i, k := range av.Keys() {
			if bv.Keys()[i] != k {
				return false
			}
			x, _ := av.Get(k)
			y, _ := bv.Get(k)
			if !Equal(x, y) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	}
	return false
}
