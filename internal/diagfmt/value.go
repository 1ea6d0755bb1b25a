// Package diagfmt renders build outcomes: the JSON result tree returned by
// the service, human-readable diagnostics for the terminal, and token dumps.
package diagfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// ErrInvalidValue is returned when a result tree contains a nil value.
var ErrInvalidValue = errors.New("diagfmt: invalid value")

// Value is a node of a result tree: String, Int, List or *Map.
type Value interface {
	json.Marshaler
	value()
}

type String string

type Int int64

type List []Value

// Map keeps its keys in insertion order.
type Map struct {
	keys []string
	vals map[string]Value
}

func (String) value() {}
func (Int) value()    {}
func (List) value()   {}
func (*Map) value()   {}

func NewMap() *Map {
	return &Map{vals: make(map[string]Value)}
}

// Set stores v under k. Replacing a key keeps its position.
func (m *Map) Set(k string, v Value) *Map {
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
	return m
}

func (m *Map) Get(k string) (Value, bool) {
	v, ok := m.vals[k]
	return v, ok
}

func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *Map) Len() int { return len(m.keys) }

func (s String) MarshalJSON() ([]byte, error) {
	return quote(string(s))
}

func (i Int) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(i), 10), nil
}

func (l List) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('[')
	for i, v := range l {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := appendValue(&b, v); err != nil {
			return nil, err
		}
	}
	b.WriteByte(']')
	return b.Bytes(), nil
}

func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return nil, ErrInvalidValue
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := quote(k)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		if err := appendValue(&b, m.vals[k]); err != nil {
			return nil, err
		}
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func appendValue(b *bytes.Buffer, v Value) error {
	if v == nil {
		return ErrInvalidValue
	}
	data, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	b.Write(data)
	return nil
}

// quote writes s as a JSON string literal without HTML escaping, so that
// generated code keeps its && and < intact.
func quote(s string) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(b.Bytes(), []byte{'\n'}), nil
}

// Encode serializes v compactly.
func Encode(v Value) ([]byte, error) {
	if v == nil {
		return nil, ErrInvalidValue
	}
	var b bytes.Buffer
	if err := appendValue(&b, v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
