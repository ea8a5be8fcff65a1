package skemagen

import js "github.com/skemagen/skemagen/jsonschema"

// AnnotationKind tags the recognized validation-annotation variants. The
// zero value is Unrecognized so that foreign annotation kinds decay to the
// ignore path by default.
type AnnotationKind int

const (
	AnnUnrecognized AnnotationKind = iota
	AnnRequired
	AnnMaxLength
	AnnMinLength
	AnnFormat
	AnnEnumConstraint
)

// String returns the annotation kind tag used in issue params.
func (k AnnotationKind) String() string {
	switch k {
	case AnnRequired:
		return "required"
	case AnnMaxLength:
		return "max_length"
	case AnnMinLength:
		return "min_length"
	case AnnFormat:
		return "format"
	case AnnEnumConstraint:
		return "enum_constraint"
	default:
		return "unrecognized"
	}
}

// Annotation is a tagged variant over the recognized constraint kinds. Only
// the fields relevant to Kind are meaningful.
type Annotation struct {
	Kind   AnnotationKind
	Length int             // MaxLength / MinLength
	Format string          // Format name, e.g. "phone", "email"
	Enum   *TypeDescriptor // EnumConstraint target (KindEnum)
	Raw    string          // original tag of an unrecognized annotation
}

// Required marks the member as required.
func Required() Annotation { return Annotation{Kind: AnnRequired} }

// MaxLength constrains the maximum string length.
func MaxLength(n int) Annotation { return Annotation{Kind: AnnMaxLength, Length: n} }

// MinLength constrains the minimum string length.
func MinLength(n int) Annotation { return Annotation{Kind: AnnMinLength, Length: n} }

// Format names a semantic string format such as "phone" or "email".
func Format(name string) Annotation { return Annotation{Kind: AnnFormat, Format: name} }

// EnumConstraint restricts string values to the symbols of a named enum.
func EnumConstraint(enum *TypeDescriptor) Annotation {
	return Annotation{Kind: AnnEnumConstraint, Enum: enum}
}

// Unrecognized wraps a foreign annotation tag. The mapper skips it unless
// the call runs under UnknownFail.
func Unrecognized(raw string) Annotation { return Annotation{Kind: AnnUnrecognized, Raw: raw} }

// Handler maps one annotation into its schema effect. patch carries the
// constraint keywords to merge into the member node (nil when the annotation
// only toggles required-ness); required reports whether the member becomes
// required; ok=false means the handler does not recognize the annotation.
type Handler func(a Annotation) (patch *js.Schema, required bool, ok bool)

// builtinHandlers is the default annotation table. It is never mutated;
// per-call extension goes through Options.Handlers.
var builtinHandlers = map[AnnotationKind]Handler{
	AnnRequired: func(Annotation) (*js.Schema, bool, bool) {
		return nil, true, true
	},
	AnnMaxLength: func(a Annotation) (*js.Schema, bool, bool) {
		n := a.Length
		return &js.Schema{MaxLength: &n}, false, true
	},
	AnnMinLength: func(a Annotation) (*js.Schema, bool, bool) {
		n := a.Length
		return &js.Schema{MinLength: &n}, false, true
	},
	AnnFormat: func(a Annotation) (*js.Schema, bool, bool) {
		return &js.Schema{Format: a.Format}, false, true
	},
	AnnEnumConstraint: func(a Annotation) (*js.Schema, bool, bool) {
		// A constraint pointing at a non-enum descriptor is treated as
		// unrecognized so UnknownFail surfaces it instead of emitting an
		// empty enum.
		if a.Enum == nil || a.Enum.Kind != KindEnum {
			return nil, false, false
		}
		return &js.Schema{Enum: append([]string(nil), a.Enum.Symbols...)}, false, true
	},
}

// resolveHandlers merges per-call overrides over the built-in table.
func resolveHandlers(overrides map[AnnotationKind]Handler) map[AnnotationKind]Handler {
	if len(overrides) == 0 {
		return builtinHandlers
	}
	merged := make(map[AnnotationKind]Handler, len(builtinHandlers)+len(overrides))
	for k, h := range builtinHandlers {
		merged[k] = h
	}
	for k, h := range overrides {
		merged[k] = h
	}
	return merged
}
