package skemagen

import (
	"github.com/skemagen/skemagen/i18n"
	js "github.com/skemagen/skemagen/jsonschema"
)

// builder assembles schema nodes for single types and members. It owns the
// annotation table for one generation call and records non-fatal
// resolutions (annotation conflicts) as warning issues.
type builder struct {
	opt      Options
	handlers map[AnnotationKind]Handler
	warnings Issues
}

func newBuilder(opt Options) *builder {
	return &builder{opt: opt, handlers: resolveHandlers(opt.Handlers)}
}

func (b *builder) primitive(k Kind) *js.Schema {
	return &js.Schema{Type: js.Types(k.String())}
}

// enum emits the symbol names as strings in declaration order. Underlying
// numeric values are never inspected; schema consumers operate on the
// serialized form.
func (b *builder) enum(t *TypeDescriptor) *js.Schema {
	return &js.Schema{
		Type: js.Types("string"),
		Enum: append([]string(nil), t.Symbols...),
	}
}

func (b *builder) array(items *js.Schema) *js.Schema {
	return &js.Schema{Type: js.Types("array"), Items: items}
}

func (b *builder) dictionary(value *js.Schema) *js.Schema {
	return &js.Schema{Type: js.Types("object"), AdditionalProperties: value}
}

// memberNode pairs a built property node with its computed required flag.
type memberNode struct {
	name     string
	node     *js.Schema
	required bool
}

// object attaches properties and the required list in declared member order.
func (b *builder) object(members []memberNode) *js.Schema {
	node := &js.Schema{Type: js.Types("object")}
	if len(members) == 0 {
		return node
	}
	props := js.NewMap()
	for _, m := range members {
		props.Set(m.name, m.node)
		if m.required {
			node.Required = append(node.Required, m.name)
		}
	}
	node.Properties = props
	return node
}

// applyAnnotations merges the mapped fragment of every annotation onto node
// in declaration order and reports whether the member is annotated required.
// Unrecognized annotations are skipped under UnknownIgnore and fatal under
// UnknownFail.
func (b *builder) applyAnnotations(node *js.Schema, anns []Annotation, path string) (bool, Issues) {
	required := false
	for _, a := range anns {
		var (
			patch *js.Schema
			req   bool
			ok    bool
		)
		if h, found := b.handlers[a.Kind]; found {
			patch, req, ok = h(a)
		}
		if !ok {
			if b.opt.UnknownAnnotations == UnknownFail {
				return false, Issues{{
					Path:    path,
					Code:    CodeUnknownAnnotation,
					Message: i18n.T(CodeUnknownAnnotation, nil),
					Params:  map[string]any{"annotation": annotationTag(a)},
				}}
			}
			continue
		}
		if req {
			required = true
		}
		if patch != nil {
			b.merge(node, patch, path)
		}
	}
	return required, nil
}

// requiredFor applies the requiredness policy on top of the annotation flag.
func (b *builder) requiredFor(m MemberDescriptor, annotated bool) bool {
	if annotated {
		return true
	}
	if b.opt.Requiredness == RequireNonNullable {
		return m.Type != nil && m.Type.Kind != KindNullable
	}
	return false
}

// merge copies the constraint keywords set on patch onto dst. Unrelated keys
// are never touched; a directly conflicting key resolves last-write-wins and
// the resolution is recorded for diagnosability.
func (b *builder) merge(dst, patch *js.Schema, path string) {
	if patch.Format != "" {
		if dst.Format != "" && dst.Format != patch.Format {
			b.conflict(path, "format", dst.Format, patch.Format)
		}
		dst.Format = patch.Format
	}
	if patch.MaxLength != nil {
		if dst.MaxLength != nil && *dst.MaxLength != *patch.MaxLength {
			b.conflict(path, "maxLength", *dst.MaxLength, *patch.MaxLength)
		}
		dst.MaxLength = patch.MaxLength
	}
	if patch.MinLength != nil {
		if dst.MinLength != nil && *dst.MinLength != *patch.MinLength {
			b.conflict(path, "minLength", *dst.MinLength, *patch.MinLength)
		}
		dst.MinLength = patch.MinLength
	}
	if patch.Enum != nil {
		if dst.Enum != nil && !equalStrings(dst.Enum, patch.Enum) {
			b.conflict(path, "enum", dst.Enum, patch.Enum)
		}
		dst.Enum = patch.Enum
	}
	if len(patch.Type) > 0 {
		if len(dst.Type) > 0 && !equalStrings(dst.Type, patch.Type) {
			b.conflict(path, "type", dst.Type, patch.Type)
		}
		dst.Type = patch.Type
	}
}

func (b *builder) conflict(path, keyword string, prev, next any) {
	b.warnings = AppendIssues(b.warnings, Issue{
		Path:    path,
		Code:    CodeAnnotationConflict,
		Message: i18n.T(CodeAnnotationConflict, map[string]string{"keyword": keyword}),
		Params:  map[string]any{"keyword": keyword, "previous": prev, "applied": next},
	})
}

// annotationTag renders a stable identifier for issue params.
func annotationTag(a Annotation) string {
	if a.Kind == AnnUnrecognized && a.Raw != "" {
		return a.Raw
	}
	return a.Kind.String()
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
