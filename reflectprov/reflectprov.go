// Package reflectprov builds skemagen type descriptors from Go types via
// reflection. It is the host-platform descriptor provider: the generation
// engine consumes the normalized graph and never reflects on its own.
package reflectprov

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	skemagen "github.com/skemagen/skemagen"
)

// Provider converts reflect types into descriptor graphs. Struct types are
// memoized so self-referential and mutually-referential Go types produce
// cyclic descriptor graphs with stable pointer identity.
//
// A Provider is not safe for concurrent use; build the graph once and hand
// it to Generate, which is.
type Provider struct {
	memo        map[reflect.Type]*skemagen.TypeDescriptor
	enums       map[reflect.Type]*skemagen.TypeDescriptor
	enumsByName map[string]*skemagen.TypeDescriptor
}

// New returns an empty Provider.
func New() *Provider {
	return &Provider{
		memo:        map[reflect.Type]*skemagen.TypeDescriptor{},
		enums:       map[reflect.Type]*skemagen.TypeDescriptor{},
		enumsByName: map[string]*skemagen.TypeDescriptor{},
	}
}

// RegisterEnum declares a named Go type as an enum over the given symbols,
// in declaration order. Members of that type map to an enum descriptor, and
// `enum=<TypeName>` tag entries resolve to it.
func (p *Provider) RegisterEnum(sample any, symbols ...string) {
	t := reflect.TypeOf(sample)
	d := skemagen.EnumType(t.Name(), symbols...)
	p.enums[t] = d
	p.enumsByName[t.Name()] = d
}

// Describe builds the descriptor graph for v, which may be a value or a
// reflect.Type.
func (p *Provider) Describe(v any) (*skemagen.TypeDescriptor, error) {
	if t, ok := v.(reflect.Type); ok {
		return p.describeType(t)
	}
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("reflectprov: cannot describe untyped nil")
	}
	return p.describeType(t)
}

var timeType = reflect.TypeOf(time.Time{})

func (p *Provider) describeType(t reflect.Type) (*skemagen.TypeDescriptor, error) {
	if d, ok := p.enums[t]; ok {
		return d, nil
	}
	if t == timeType {
		return skemagen.StringType(), nil
	}
	switch t.Kind() {
	case reflect.String:
		return skemagen.StringType(), nil
	case reflect.Bool:
		return skemagen.BooleanType(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return skemagen.IntegerType(), nil
	case reflect.Float32, reflect.Float64:
		return skemagen.NumberType(), nil
	case reflect.Pointer:
		inner, err := p.describeType(t.Elem())
		if err != nil {
			return nil, err
		}
		return skemagen.NullableOf(inner), nil
	case reflect.Slice, reflect.Array:
		elem, err := p.describeType(t.Elem())
		if err != nil {
			return nil, err
		}
		return skemagen.ArrayOf(elem), nil
	case reflect.Map:
		key, err := p.describeType(t.Key())
		if err != nil {
			return nil, err
		}
		value, err := p.describeType(t.Elem())
		if err != nil {
			return nil, err
		}
		return skemagen.DictionaryOf(key, value), nil
	case reflect.Struct:
		return p.describeStruct(t)
	default:
		return nil, fmt.Errorf("reflectprov: unsupported kind %s (%s)", t.Kind(), t)
	}
}

func (p *Provider) describeStruct(t reflect.Type) (*skemagen.TypeDescriptor, error) {
	if d, ok := p.memo[t]; ok {
		return d, nil
	}
	d := &skemagen.TypeDescriptor{Name: t.Name(), Kind: skemagen.KindObject}
	// Memoize before walking fields so cycles resolve to this descriptor.
	// The entry must be dropped again on failure: the Provider outlives the
	// call, and a cached half-built descriptor would make a later Describe
	// succeed with members silently missing.
	p.memo[t] = d
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := ResolveStructKey(sf)
		if key == "-" {
			continue
		}
		ft, err := p.describeType(sf.Type)
		if err != nil {
			delete(p.memo, t)
			return nil, fmt.Errorf("%s.%s: %w", t.Name(), sf.Name, err)
		}
		anns, err := p.parseTag(sf.Tag.Get("skemagen"))
		if err != nil {
			delete(p.memo, t)
			return nil, fmt.Errorf("%s.%s: %w", t.Name(), sf.Name, err)
		}
		d.Members = append(d.Members, skemagen.MemberDescriptor{
			Name:        key,
			Type:        ft,
			Annotations: anns,
		})
	}
	return d, nil
}

// parseTag maps skemagen tag entries to annotations. Entries the table does
// not know decay to Unrecognized, matching the engine's forward-compatible
// ignore path.
func (p *Provider) parseTag(tag string) ([]skemagen.Annotation, error) {
	if tag == "" {
		return nil, nil
	}
	var anns []skemagen.Annotation
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.HasPrefix(part, "name=") {
			continue
		}
		key, val, _ := strings.Cut(part, "=")
		switch key {
		case "required":
			anns = append(anns, skemagen.Required())
		case "maxlen":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("reflectprov: maxlen needs an integer: %w", err)
			}
			anns = append(anns, skemagen.MaxLength(n))
		case "minlen":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("reflectprov: minlen needs an integer: %w", err)
			}
			anns = append(anns, skemagen.MinLength(n))
		case "format":
			anns = append(anns, skemagen.Format(val))
		case "enum":
			target, ok := p.enumsByName[val]
			if !ok {
				return nil, fmt.Errorf("reflectprov: enum %q not registered", val)
			}
			anns = append(anns, skemagen.EnumConstraint(target))
		default:
			anns = append(anns, skemagen.Unrecognized(part))
		}
	}
	return anns, nil
}

// ResolveStructKey applies the repository-wide rule to resolve a struct
// field's external key.
// Priority: skemagen:"name=..." > json tag name > field name; "-" disables
// the field.
func ResolveStructKey(sf reflect.StructField) string {
	if gt := sf.Tag.Get("skemagen"); gt != "" {
		for _, part := range strings.Split(gt, ",") {
			part = strings.TrimSpace(part)
			if strings.HasPrefix(part, "name=") {
				return strings.TrimPrefix(part, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}
