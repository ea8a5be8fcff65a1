package jsonschema

import (
	"bytes"
	"encoding/json"
)

// Map is an insertion-ordered string-keyed map of schema nodes, used for
// properties and definitions. Key order is preserved through MarshalJSON so
// repeated generation of the same graph is byte-identical.
type Map struct {
	keys []string
	vals map[string]*Schema
}

// NewMap returns an empty ordered map.
func NewMap() *Map { return &Map{vals: map[string]*Schema{}} }

// Set inserts or replaces a key. Replacing keeps the original position.
func (m *Map) Set(key string, s *Schema) {
	if m.vals == nil {
		m.vals = map[string]*Schema{}
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = s
}

// Get returns the node for key, or nil when absent.
func (m *Map) Get(key string) *Schema {
	if m == nil || m.vals == nil {
		return nil
	}
	return m.vals[key]
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	if m == nil || m.vals == nil {
		return false
	}
	_, ok := m.vals[key]
	return ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// MarshalJSON emits entries in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
