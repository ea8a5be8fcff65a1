package skemagen

// Package skemagen generates JSON Schema documents from normalized type
// descriptors.
//
// - A TypeDescriptor graph describes the shape of a source type (objects,
//   enums, arrays, dictionaries, nullable wrappers) together with the
//   validation annotations attached to each member.
// - Generate walks the graph depth-first, maps annotations to schema
//   constraints, and returns a deterministic jsonschema.Schema tree.
// - Cycles and shared sub-graphs resolve through definitions/$ref; all
//   traversal state is scoped to a single Generate call, so concurrent
//   calls are safe.
//
// Design policy:
// - Keep only public APIs in the root package; descriptor providers live in
//   their own packages (reflectprov/, manifest/).
// - A stable error model via Issues (path, code, message); fatal conditions
//   abort the whole call and never return partial trees.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	desc, err := reflectprov.New().Describe(Building{})
//	res, err := skemagen.Generate(desc, skemagen.Options{})
//	out, err := json.Marshal(res.Schema)
