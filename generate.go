package skemagen

import (
	"github.com/skemagen/skemagen/i18n"
	js "github.com/skemagen/skemagen/jsonschema"
)

// Result is the outcome of one generation call.
type Result struct {
	// Schema is the root node of the generated tree. When definitions were
	// accumulated they are attached under Schema.Definitions as well.
	Schema *js.Schema

	// Definitions is the accumulated definitions map under RefDefinitions;
	// nil when empty or when generating inline.
	Definitions *js.Map

	// Warnings records non-fatal resolutions (annotation conflicts,
	// references that could not absorb nullability) in discovery order.
	Warnings Issues
}

// Generate walks the descriptor graph rooted at root and returns the
// generated schema document. Fatal conditions abort the whole call with an
// Issues error naming the offending type/member path; partial trees are
// never returned. All traversal state is scoped to this call, so concurrent
// calls are safe.
func Generate(root *TypeDescriptor, opt Options) (*Result, error) {
	if root == nil {
		return nil, Issues{{
			Path:    "/",
			Code:    CodeUnrepresentableType,
			Message: i18n.T(CodeUnrepresentableType, nil),
			Params:  map[string]any{"reason": "nil root descriptor"},
		}}
	}

	// Inlining a cyclic graph would recurse without bound; reject the
	// combination before walking rather than partway through.
	if opt.References == RefInline {
		if cycleAt := findCycle(root); cycleAt != nil {
			return nil, Issues{{
				Path:    "/",
				Code:    CodeCyclicReference,
				Message: i18n.T(CodeCyclicReference, nil),
				Params:  map[string]any{"type": cycleAt.Name},
			}}
		}
	}

	w := newWalker(root, opt)
	node, err := w.visit(root, "/")
	if err != nil {
		return nil, err
	}

	res := &Result{Schema: node, Warnings: w.b.warnings}
	if w.defs.Len() > 0 {
		node.Definitions = w.defs
		res.Definitions = w.defs
	}
	return res, nil
}

// findCycle reports the first descriptor that closes a cycle, or nil for an
// acyclic graph. Shared sub-graphs are fine; only the active path counts.
func findCycle(root *TypeDescriptor) *TypeDescriptor {
	onPath := map[*TypeDescriptor]bool{}
	done := map[*TypeDescriptor]bool{}
	var walk func(t *TypeDescriptor) *TypeDescriptor
	walk = func(t *TypeDescriptor) *TypeDescriptor {
		if t == nil || done[t] {
			return nil
		}
		if onPath[t] {
			return t
		}
		onPath[t] = true
		defer func() { delete(onPath, t); done[t] = true }()
		for _, m := range t.Members {
			if c := walk(m.Type); c != nil {
				return c
			}
		}
		for _, next := range []*TypeDescriptor{t.Elem, t.Key, t.Value} {
			if c := walk(next); c != nil {
				return c
			}
		}
		return nil
	}
	return walk(root)
}
