package skemagen

// Kind identifies the shape of a TypeDescriptor.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindInteger
	KindBoolean
	KindObject
	KindEnum
	KindArray
	KindDictionary
	KindNullable
	KindTypeParam // unbound generic parameter; never representable
)

// String returns the descriptor kind name used in issue params.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return "object"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	case KindDictionary:
		return "dictionary"
	case KindNullable:
		return "nullable"
	case KindTypeParam:
		return "type-param"
	default:
		return "unknown"
	}
}

// TypeDescriptor is a normalized, read-only view of a source type. The graph
// may contain cycles and shared sub-graphs; identity is pointer identity, so
// two members pointing at the same *TypeDescriptor reference the same type.
type TypeDescriptor struct {
	Name string // declared type name; may be empty for anonymous shapes
	Kind Kind

	Members []MemberDescriptor // Object: declared member order
	Symbols []string           // Enum: declaration order of symbol names
	Elem    *TypeDescriptor    // Array element / Nullable inner type
	Key     *TypeDescriptor    // Dictionary key type
	Value   *TypeDescriptor    // Dictionary value type
}

// MemberDescriptor describes one property of an object type.
type MemberDescriptor struct {
	Name        string
	Type        *TypeDescriptor
	Annotations []Annotation
}

// Primitive descriptor constructors. Each call returns a fresh descriptor so
// callers own the identity; primitives are never registered as definitions.

// StringType returns a string primitive descriptor.
func StringType() *TypeDescriptor { return &TypeDescriptor{Kind: KindString} }

// NumberType returns a number primitive descriptor.
func NumberType() *TypeDescriptor { return &TypeDescriptor{Kind: KindNumber} }

// IntegerType returns an integer primitive descriptor.
func IntegerType() *TypeDescriptor { return &TypeDescriptor{Kind: KindInteger} }

// BooleanType returns a boolean primitive descriptor.
func BooleanType() *TypeDescriptor { return &TypeDescriptor{Kind: KindBoolean} }

// NullableOf wraps t in a nullable marker. The generated node carries the
// union type [base, "null"] rather than a side flag.
func NullableOf(t *TypeDescriptor) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindNullable, Elem: t}
}

// ArrayOf returns an array descriptor over the given element type.
func ArrayOf(elem *TypeDescriptor) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindArray, Elem: elem}
}

// DictionaryOf returns a dictionary descriptor. Only string keys are
// representable in JSON Schema; other key kinds fail at generation time.
func DictionaryOf(key, value *TypeDescriptor) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindDictionary, Key: key, Value: value}
}

// EnumType returns a named enum descriptor over the given symbols.
func EnumType(name string, symbols ...string) *TypeDescriptor {
	return &TypeDescriptor{Name: name, Kind: KindEnum, Symbols: symbols}
}

// ObjectType returns a named object descriptor with the given members.
func ObjectType(name string, members ...MemberDescriptor) *TypeDescriptor {
	return &TypeDescriptor{Name: name, Kind: KindObject, Members: members}
}

// Member builds a MemberDescriptor; a convenience for descriptor literals.
func Member(name string, t *TypeDescriptor, anns ...Annotation) MemberDescriptor {
	return MemberDescriptor{Name: name, Type: t, Annotations: anns}
}

// definable reports whether t can be registered under a name in the
// definitions cache. Only named objects participate; enums and wrappers are
// inlined at every use site.
func (t *TypeDescriptor) definable() bool {
	return t != nil && t.Kind == KindObject && t.Name != ""
}
