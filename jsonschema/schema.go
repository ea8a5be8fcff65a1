package jsonschema

import "encoding/json"

// Schema is one node of the generated JSON Schema tree. The keyword set is
// the practical subset this engine emits: type, properties, required, enum,
// format, maxLength/minLength, items, additionalProperties, definitions and
// $ref. Field declaration order is the serialization order.
type Schema struct {
	// Reference
	Ref string `json:"$ref,omitempty"`

	// Core
	Type   TypeSet `json:"type,omitempty"`
	Format string  `json:"format,omitempty"`

	// String
	MaxLength *int `json:"maxLength,omitempty"`
	MinLength *int `json:"minLength,omitempty"`

	// Enum (symbol names in declaration order)
	Enum []string `json:"enum,omitempty"`

	// Object
	Properties           *Map     `json:"properties,omitempty"`
	Required             []string `json:"required,omitempty"`
	AdditionalProperties any      `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Definitions referenced via $ref
	Definitions *Map `json:"definitions,omitempty"`
}

// TypeSet is the value of the "type" keyword: a single primitive name, or an
// ordered union such as ["string","null"] for nullable members.
type TypeSet []string

// Types builds a TypeSet from the given names.
func Types(names ...string) TypeSet { return TypeSet(names) }

// MarshalJSON renders a single name as a bare string and a union as an
// ordered array, matching on-wire JSON Schema conventions.
func (ts TypeSet) MarshalJSON() ([]byte, error) {
	if len(ts) == 1 {
		return json.Marshal(ts[0])
	}
	return json.Marshal([]string(ts))
}

// WithNull returns the union of ts and "null". Appending to an existing
// union is idempotent.
func (ts TypeSet) WithNull() TypeSet {
	for _, n := range ts {
		if n == "null" {
			return ts
		}
	}
	out := make(TypeSet, 0, len(ts)+1)
	out = append(out, ts...)
	return append(out, "null")
}

// IsRef reports whether the node is a pure reference.
func (s *Schema) IsRef() bool { return s != nil && s.Ref != "" }
