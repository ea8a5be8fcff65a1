package manifest

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	skemagen "github.com/skemagen/skemagen"
)

// ImportYAML decodes the first YAML document in data and imports it as a
// descriptor manifest.
func ImportYAML(data []byte, opts Options) (*skemagen.TypeDescriptor, Diag, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var node any
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &simpleDiag{}, errors.New("manifest: empty YAML input")
		}
		return nil, &simpleDiag{}, err
	}
	m := yamlAnyToStringMap(node)
	if m == nil {
		return nil, &simpleDiag{}, errors.New("manifest: YAML document is not a mapping")
	}
	return Import(m, opts)
}

// ImportYAMLForRoot scans a multi-document YAML stream and imports the first
// manifest that declares the given type, using it as the root.
func ImportYAMLForRoot(data []byte, root string, opts Options) (*skemagen.TypeDescriptor, Diag, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node any
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &simpleDiag{}, err
		}
		m := yamlAnyToStringMap(node)
		if m == nil {
			continue
		}
		if !declaresType(m, root) {
			continue
		}
		opts.Root = root
		return Import(m, opts)
	}
	return nil, &simpleDiag{}, errors.New("manifest: root type not found in YAML stream")
}

func declaresType(doc map[string]any, name string) bool {
	types, _ := doc["types"].([]any)
	for _, raw := range types {
		if tm, ok := raw.(map[string]any); ok {
			if n, _ := tm["name"].(string); n == name {
				return true
			}
		}
	}
	return false
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain
// map[any]any) into JSON-like map[string]any recursively. Non-map roots
// return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
