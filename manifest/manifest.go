// Package manifest imports descriptor manifests (YAML or JSON documents
// declaring named types, their members and annotations) into a
// skemagen.TypeDescriptor graph. It is one of the pluggable descriptor
// providers; the generation engine itself never parses documents.
package manifest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	skemagen "github.com/skemagen/skemagen"
)

// Import compiles a descriptor manifest into a TypeDescriptor graph and
// returns the root descriptor. The input can be either a decoded
// map[string]any or raw JSON bytes. Named types may reference each other
// freely, including cycles and self-references.
func Import(doc any, opts Options) (*skemagen.TypeDescriptor, Diag, error) {
	d := &simpleDiag{}
	if doc == nil {
		return nil, d, errors.New("manifest: nil document")
	}
	var root map[string]any
	switch t := doc.(type) {
	case []byte:
		if err := json.Unmarshal(t, &root); err != nil {
			return nil, d, fmt.Errorf("manifest: invalid JSON: %w", err)
		}
	case map[string]any:
		root = t
	default:
		return nil, d, fmt.Errorf("manifest: unsupported input %T", doc)
	}
	return importManifest(root, opts, d)
}

func importManifest(doc map[string]any, opts Options, d *simpleDiag) (*skemagen.TypeDescriptor, Diag, error) {
	rawTypes, ok := doc["types"].([]any)
	if !ok || len(rawTypes) == 0 {
		return nil, d, errors.New("manifest: no types declared")
	}

	// Pass 1: declare every named type so references (including cycles)
	// resolve by pointer identity.
	byName := make(map[string]*skemagen.TypeDescriptor, len(rawTypes))
	entries := make([]map[string]any, 0, len(rawTypes))
	order := make([]string, 0, len(rawTypes))
	for i, raw := range rawTypes {
		tm, _ := raw.(map[string]any)
		if tm == nil {
			return nil, d, fmt.Errorf("manifest: types[%d] is not a mapping", i)
		}
		name, _ := tm["name"].(string)
		if name == "" {
			return nil, d, fmt.Errorf("manifest: types[%d] has no name", i)
		}
		if _, dup := byName[name]; dup {
			return nil, d, fmt.Errorf("manifest: duplicate type %q", name)
		}
		byName[name] = &skemagen.TypeDescriptor{Name: name}
		entries = append(entries, tm)
		order = append(order, name)
	}

	// Pass 2: fill kinds, members and symbols.
	for i, tm := range entries {
		if err := fillType(byName[order[i]], tm, byName, d); err != nil {
			return nil, d, err
		}
	}

	rootName := opts.Root
	if rootName == "" {
		rootName, _ = doc["root"].(string)
	}
	if rootName == "" {
		if len(order) == 1 {
			rootName = order[0]
		} else {
			return nil, d, errors.New("manifest: root type not declared")
		}
	}
	rt, ok := byName[rootName]
	if !ok {
		return nil, d, fmt.Errorf("manifest: root type %q not found", rootName)
	}
	return rt, d, nil
}

func fillType(dst *skemagen.TypeDescriptor, tm map[string]any, byName map[string]*skemagen.TypeDescriptor, d *simpleDiag) error {
	kind, _ := tm["kind"].(string)
	switch kind {
	case "object", "":
		dst.Kind = skemagen.KindObject
		return fillMembers(dst, tm, byName, d)
	case "enum":
		dst.Kind = skemagen.KindEnum
		syms, _ := tm["symbols"].([]any)
		if len(syms) == 0 {
			return fmt.Errorf("manifest: enum %q declares no symbols", dst.Name)
		}
		for _, s := range syms {
			sym, ok := s.(string)
			if !ok {
				return fmt.Errorf("manifest: enum %q has a non-string symbol", dst.Name)
			}
			dst.Symbols = append(dst.Symbols, sym)
		}
		return nil
	default:
		return fmt.Errorf("manifest: type %q has unsupported kind %q", dst.Name, kind)
	}
}

func fillMembers(dst *skemagen.TypeDescriptor, tm map[string]any, byName map[string]*skemagen.TypeDescriptor, d *simpleDiag) error {
	rawMembers, _ := tm["members"].([]any)
	seen := map[string]bool{}
	for i, raw := range rawMembers {
		mm, _ := raw.(map[string]any)
		if mm == nil {
			return fmt.Errorf("manifest: %s.members[%d] is not a mapping", dst.Name, i)
		}
		name, _ := mm["name"].(string)
		if name == "" {
			return fmt.Errorf("manifest: %s.members[%d] has no name", dst.Name, i)
		}
		if seen[name] {
			return fmt.Errorf("manifest: %s declares member %q twice", dst.Name, name)
		}
		seen[name] = true

		td, err := resolveTypeRef(mm["type"], dst.Name, name, byName)
		if err != nil {
			return err
		}
		anns, err := parseAnnotations(mm["annotations"], dst.Name, name, byName, d)
		if err != nil {
			return err
		}
		dst.Members = append(dst.Members, skemagen.MemberDescriptor{
			Name:        name,
			Type:        td,
			Annotations: anns,
		})
	}
	return nil
}

// resolveTypeRef resolves a member type reference. Plain strings name a
// primitive or a declared type, with a trailing "?" marking nullability;
// mappings express wrappers: {array: T}, {dictionary: T}, {nullable: T}.
func resolveTypeRef(ref any, typeName, memberName string, byName map[string]*skemagen.TypeDescriptor) (*skemagen.TypeDescriptor, error) {
	switch t := ref.(type) {
	case string:
		if s, ok := strings.CutSuffix(t, "?"); ok {
			inner, err := resolveTypeRef(s, typeName, memberName, byName)
			if err != nil {
				return nil, err
			}
			return skemagen.NullableOf(inner), nil
		}
		switch t {
		case "string":
			return skemagen.StringType(), nil
		case "number":
			return skemagen.NumberType(), nil
		case "integer":
			return skemagen.IntegerType(), nil
		case "boolean":
			return skemagen.BooleanType(), nil
		}
		if td, ok := byName[t]; ok {
			return td, nil
		}
		return nil, fmt.Errorf("manifest: %s.%s references unknown type %q", typeName, memberName, t)
	case map[string]any:
		if inner, ok := t["array"]; ok {
			elem, err := resolveTypeRef(inner, typeName, memberName, byName)
			if err != nil {
				return nil, err
			}
			return skemagen.ArrayOf(elem), nil
		}
		if inner, ok := t["dictionary"]; ok {
			value, err := resolveTypeRef(inner, typeName, memberName, byName)
			if err != nil {
				return nil, err
			}
			return skemagen.DictionaryOf(skemagen.StringType(), value), nil
		}
		if inner, ok := t["nullable"]; ok {
			elem, err := resolveTypeRef(inner, typeName, memberName, byName)
			if err != nil {
				return nil, err
			}
			return skemagen.NullableOf(elem), nil
		}
		return nil, fmt.Errorf("manifest: %s.%s has an unsupported type mapping", typeName, memberName)
	case nil:
		return nil, fmt.Errorf("manifest: %s.%s has no type", typeName, memberName)
	default:
		return nil, fmt.Errorf("manifest: %s.%s has invalid type reference %T", typeName, memberName, ref)
	}
}

// parseAnnotations parses the annotation string list. Foreign tags are kept
// as Unrecognized so the generator's unknown-annotation policy decides their
// fate; the importer only records them.
func parseAnnotations(raw any, typeName, memberName string, byName map[string]*skemagen.TypeDescriptor, d *simpleDiag) ([]skemagen.Annotation, error) {
	list, _ := raw.([]any)
	if len(list) == 0 {
		return nil, nil
	}
	anns := make([]skemagen.Annotation, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("manifest: %s.%s has a non-string annotation", typeName, memberName)
		}
		key, val, _ := strings.Cut(s, "=")
		switch key {
		case "required":
			anns = append(anns, skemagen.Required())
		case "maxlength":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("manifest: %s.%s: maxlength needs an integer: %w", typeName, memberName, err)
			}
			anns = append(anns, skemagen.MaxLength(n))
		case "minlength":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("manifest: %s.%s: minlength needs an integer: %w", typeName, memberName, err)
			}
			anns = append(anns, skemagen.MinLength(n))
		case "format":
			if val == "" {
				return nil, fmt.Errorf("manifest: %s.%s: format needs a name", typeName, memberName)
			}
			anns = append(anns, skemagen.Format(val))
		case "enum":
			target, ok := byName[val]
			if !ok {
				return nil, fmt.Errorf("manifest: %s.%s: enum constraint references unknown type %q", typeName, memberName, val)
			}
			anns = append(anns, skemagen.EnumConstraint(target))
		default:
			d.warnf("%s.%s: unrecognized annotation %q kept as-is", typeName, memberName, s)
			anns = append(anns, skemagen.Unrecognized(s))
		}
	}
	return anns, nil
}
