package skemagen

import (
	"fmt"

	"github.com/skemagen/skemagen/i18n"
	js "github.com/skemagen/skemagen/jsonschema"
)

// walker performs the depth-first traversal over a descriptor graph. All of
// its state is scoped to one Generate call.
//
// Under RefDefinitions every named object type other than the root lives in
// the definitions map and every use site emits $ref; references back to the
// root type render as "#". Definition names derive from the declared type
// name; when two distinct types share a name, the first type discovered
// keeps the bare name and later ones get "Name_2", "Name_3", ... in
// discovery order.
type walker struct {
	opt  Options
	b    *builder
	root *TypeDescriptor

	// visiting guards non-definable recursion (anonymous objects and
	// structural wrappers); a revisit on the active path cannot be named
	// and is therefore unrepresentable.
	visiting map[*TypeDescriptor]bool

	defs      *js.Map
	defNames  map[*TypeDescriptor]string
	nameCount map[string]int
	distinct  map[*TypeDescriptor]bool
}

func newWalker(root *TypeDescriptor, opt Options) *walker {
	return &walker{
		opt:       opt,
		b:         newBuilder(opt),
		root:      root,
		visiting:  map[*TypeDescriptor]bool{},
		defs:      js.NewMap(),
		defNames:  map[*TypeDescriptor]string{},
		nameCount: map[string]int{},
		distinct:  map[*TypeDescriptor]bool{},
	}
}

func (w *walker) visit(t *TypeDescriptor, path string) (*js.Schema, error) {
	if t == nil {
		return nil, w.fatal(path, CodeUnrepresentableType, map[string]any{"reason": "missing type descriptor"})
	}
	if err := w.countDistinct(t, path); err != nil {
		return nil, err
	}

	switch t.Kind {
	case KindString, KindNumber, KindInteger, KindBoolean:
		return w.b.primitive(t.Kind), nil
	case KindEnum:
		return w.b.enum(t), nil
	case KindNullable:
		return w.visitNullable(t, path)
	case KindArray:
		return w.visitArray(t, path)
	case KindDictionary:
		return w.visitDictionary(t, path)
	case KindObject:
		return w.visitObject(t, path)
	case KindTypeParam:
		return nil, w.fatal(path, CodeUnrepresentableType, map[string]any{
			"reason": "unbound type parameter", "type": t.Name,
		})
	default:
		return nil, w.fatal(path, CodeUnrepresentableType, map[string]any{
			"reason": "unknown descriptor kind", "kind": int(t.Kind),
		})
	}
}

// visitNullable folds "null" into the inner node's type union. Nullability
// is a first-class type union, never a side flag.
func (w *walker) visitNullable(t *TypeDescriptor, path string) (*js.Schema, error) {
	if t.Elem == nil {
		return nil, w.fatal(path, CodeUnrepresentableType, map[string]any{"reason": "nullable without inner type"})
	}
	if err := w.enter(t, path); err != nil {
		return nil, err
	}
	defer w.leave(t)
	node, err := w.visit(t.Elem, path)
	if err != nil {
		return nil, err
	}
	if node.IsRef() {
		// The keyword subset cannot union a $ref with "null"; the reference
		// is emitted as-is and the resolution recorded.
		w.b.warnings = AppendIssues(w.b.warnings, Issue{
			Path:    path,
			Code:    CodeNullableReference,
			Message: i18n.T(CodeNullableReference, nil),
			Params:  map[string]any{"ref": node.Ref},
		})
		return node, nil
	}
	node.Type = node.Type.WithNull()
	return node, nil
}

func (w *walker) visitArray(t *TypeDescriptor, path string) (*js.Schema, error) {
	if t.Elem == nil {
		return nil, w.fatal(path, CodeUnrepresentableType, map[string]any{"reason": "array without element type"})
	}
	if err := w.enter(t, path); err != nil {
		return nil, err
	}
	defer w.leave(t)
	items, err := w.visit(t.Elem, path)
	if err != nil {
		return nil, err
	}
	return w.b.array(items), nil
}

func (w *walker) visitDictionary(t *TypeDescriptor, path string) (*js.Schema, error) {
	if t.Value == nil {
		return nil, w.fatal(path, CodeUnrepresentableType, map[string]any{"reason": "dictionary without value type"})
	}
	if t.Key != nil && t.Key.Kind != KindString {
		return nil, w.fatal(path, CodeUnrepresentableType, map[string]any{
			"reason": "dictionary key must be string", "key": t.Key.Kind.String(),
		})
	}
	if err := w.enter(t, path); err != nil {
		return nil, err
	}
	defer w.leave(t)
	value, err := w.visit(t.Value, path)
	if err != nil {
		return nil, err
	}
	return w.b.dictionary(value), nil
}

func (w *walker) visitObject(t *TypeDescriptor, path string) (*js.Schema, error) {
	if t.definable() && w.opt.References == RefDefinitions {
		if name, seen := w.defNames[t]; seen {
			// Cycle back onto the active path or a completed shared
			// sub-graph; both resolve to the same reference.
			return w.refNode(t, name), nil
		}
		name := w.assignName(t)
		node, err := w.buildObject(t, path)
		if err != nil {
			return nil, err
		}
		if t == w.root {
			return node, nil
		}
		w.defs.Set(name, node)
		return w.refNode(t, name), nil
	}

	// Inline strategy, or an anonymous object: build in place. Revisiting
	// on the active path would not terminate and cannot be named.
	if err := w.enter(t, path); err != nil {
		return nil, err
	}
	defer w.leave(t)
	return w.buildObject(t, path)
}

func (w *walker) buildObject(t *TypeDescriptor, path string) (*js.Schema, error) {
	members := make([]memberNode, 0, len(t.Members))
	for _, m := range t.Members {
		mp := joinPath(path, m.Name)
		child, err := w.visit(m.Type, mp)
		if err != nil {
			return nil, err
		}
		annotated, iss := w.b.applyAnnotations(child, m.Annotations, mp)
		if iss != nil {
			return nil, iss
		}
		members = append(members, memberNode{
			name:     m.Name,
			node:     child,
			required: w.b.requiredFor(m, annotated),
		})
	}
	return w.b.object(members), nil
}

// assignName reserves a deterministic definition name for t before its
// members are walked, so cyclic references resolve to the final name.
func (w *walker) assignName(t *TypeDescriptor) string {
	base := t.Name
	n := w.nameCount[base]
	w.nameCount[base] = n + 1
	name := base
	if n > 0 {
		name = fmt.Sprintf("%s_%d", base, n+1)
	}
	w.defNames[t] = name
	if t != w.root {
		// Reserve the definitions slot in discovery order; the built node
		// replaces it in place.
		w.defs.Set(name, nil)
	}
	return name
}

func (w *walker) refNode(t *TypeDescriptor, name string) *js.Schema {
	if t == w.root {
		return &js.Schema{Ref: "#"}
	}
	return &js.Schema{Ref: "#/definitions/" + name}
}

func (w *walker) enter(t *TypeDescriptor, path string) error {
	if w.visiting[t] {
		return w.fatal(path, CodeUnrepresentableType, map[string]any{
			"reason": "cyclic reference through an unnamed type", "type": t.Kind.String(),
		})
	}
	w.visiting[t] = true
	return nil
}

func (w *walker) leave(t *TypeDescriptor) { delete(w.visiting, t) }

func (w *walker) countDistinct(t *TypeDescriptor, path string) error {
	if w.distinct[t] {
		return nil
	}
	w.distinct[t] = true
	if w.opt.MaxDistinctTypes > 0 && len(w.distinct) > w.opt.MaxDistinctTypes {
		return w.fatal(path, CodeTooManyTypes, map[string]any{"limit": w.opt.MaxDistinctTypes})
	}
	return nil
}

func (w *walker) fatal(path, code string, params map[string]any) error {
	return Issues{{Path: path, Code: code, Message: i18n.T(code, nil), Params: params}}
}

func joinPath(base, name string) string {
	if base == "/" {
		return "/" + name
	}
	return base + "/" + name
}
