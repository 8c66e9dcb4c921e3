package value

import (
	"reflect"
	"testing"
)

func TestDecodeJSON_PreservesKeyOrder(t *testing.T) {
	data := []byte(`{"zebra":"1","apple":"2","mango":{"inner_z":"3","inner_a":"4"}}`)

	v, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	m, ok := v.(*Map)
	if !ok {
		t.Fatalf("decoded %T, want *Map", v)
	}

	want := []string{"zebra", "apple", "mango"}
	if got := m.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	inner, _ := m.Get("mango")
	im, ok := inner.(*Map)
	if !ok {
		t.Fatalf("mango is %T, want *Map", inner)
	}
	wantInner := []string{"inner_z", "inner_a"}
	if got := im.Keys(); !reflect.DeepEqual(got, wantInner) {
		t.Errorf("inner Keys() = %v, want %v", got, wantInner)
	}
}

func TestDecodeJSON_Types(t *testing.T) {
	data := []byte(`{"s":"text","n":1.5,"i":42,"b":true,"nil":null,"l":["a",2]}`)

	v, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	m := v.(*Map)

	checks := map[string]Value{
		"s":   String("text"),
		"n":   Number(1.5),
		"i":   Number(42),
		"b":   Bool(true),
		"nil": Null{},
		"l":   List{String("a"), Number(2)},
	}
	for key, want := range checks {
		got, ok := m.Get(key)
		if !ok {
			t.Errorf("key %q missing", key)
			continue
		}
		if !Equal(got, want) {
			t.Errorf("key %q = %#v, want %#v", key, got, want)
		}
	}
}

func TestDecodeJSON_TrailingData(t *testing.T) {
	if _, err := DecodeJSON([]byte(`{"a":"b"} extra`)); err == nil {
		t.Error("expected error for trailing data")
	}
}

func TestDecodeJSONObject_RejectsNonObject(t *testing.T) {
	if _, err := DecodeJSONObject([]byte(`["a","b"]`)); err == nil {
		t.Error("expected error for top-level array")
	}
	if _, err := DecodeJSONObject([]byte(`"scalar"`)); err == nil {
		t.Error("expected error for top-level scalar")
	}
}

func TestEncodeJSON_RoundTrip(t *testing.T) {
	tests := []string{
		`{"zebra":"1","apple":"2"}`,
		`{"nested":{"z":"x","a":["1","2",null]},"flag":false}`,
		`{"n":1.5,"i":42,"neg":-3}`,
		`{"esc":"quote \" and \\ backslash"}`,
		`{}`,
	}
	for _, data := range tests {
		v, err := DecodeJSON([]byte(data))
		if err != nil {
			t.Fatalf("DecodeJSON(%s): %v", data, err)
		}
		out, err := EncodeJSON(v)
		if err != nil {
			t.Fatalf("EncodeJSON(%s): %v", data, err)
		}
		if string(out) != data {
			t.Errorf("round trip = %s, want %s", out, data)
		}
	}
}
