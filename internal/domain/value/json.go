package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// DecodeJSON parses a JSON document into a Value tree.
// Object key order is preserved, which encoding/json's map decoding loses;
// hence the token-level walk.
func DecodeJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

// DecodeJSONObject parses a JSON document whose top level must be an object.
func DecodeJSONObject(data []byte) (*Map, error) {
	v, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*Map)
	if !ok {
		return nil, fmt.Errorf("document must be a JSON object")
	}
	return m, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeMap(dec)
		case '[':
			return decodeList(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case string:
		return String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("parse number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeMap(dec *json.Decoder) (*Map, error) {
	m := NewMap()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read object key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	// consume closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read object end: %w", err)
	}
	return m, nil
}

func decodeList(dec *json.Decoder) (List, error) {
	l := List{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		l = append(l, v)
	}
	// consume closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read array end: %w", err)
	}
	return l, nil
}

// EncodeJSON serializes a Value tree to JSON, emitting map keys in insertion order.
func EncodeJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v Value) error {
	switch t := v.(type) {
	case String:
		s, err := json.Marshal(string(t))
		if err != nil {
			return fmt.Errorf("marshal string: %w", err)
		}
		buf.Write(s)
	case Number:
		buf.WriteString(strconv.FormatFloat(float64(t), 'g', -1, 64))
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(t)))
	case Null:
		buf.WriteString("null")
	case List:
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Map:
		buf.WriteByte('{')
		for i, k := range t.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			ks, err := json.Marshal(k)
			if err != nil {
				return fmt.Errorf("marshal key: %w", err)
			}
			buf.Write(ks)
			buf.WriteByte(':')
			e, _ := t.Get(k)
			if err := encodeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}
