package skemagen

// RequirednessPolicy controls how members are marked required.
type RequirednessPolicy int

const (
	RequireAnnotated   RequirednessPolicy = iota // Only members carrying a Required annotation.
	RequireNonNullable                           // Required annotation OR a non-nullable declared type.
)

// ReferenceStrategy controls how shared and cyclic sub-graphs are emitted.
type ReferenceStrategy int

const (
	RefDefinitions ReferenceStrategy = iota // Reused named types become definitions + $ref.
	RefInline                               // Everything inlined; cyclic graphs are rejected up front.
)

// UnknownAnnotationPolicy controls how unmapped annotation kinds are handled.
type UnknownAnnotationPolicy int

const (
	UnknownIgnore UnknownAnnotationPolicy = iota // Skip silently (forward compatibility).
	UnknownFail                                  // Abort the generation call.
)

// Options bundles generation-wide behavior. The zero value is the default
// configuration: annotation-only requiredness, definitions with references,
// unknown annotations ignored, no distinct-type bound.
type Options struct {
	Requiredness       RequirednessPolicy
	References         ReferenceStrategy
	UnknownAnnotations UnknownAnnotationPolicy

	// MaxDistinctTypes bounds the number of distinct descriptors visited in
	// one call; 0 means unlimited. A safety net for unexpectedly large
	// graphs, not needed for correctness.
	MaxDistinctTypes int

	// Handlers overrides or extends the built-in annotation table for this
	// call only. Entries shadow built-ins of the same kind.
	Handlers map[AnnotationKind]Handler
}
