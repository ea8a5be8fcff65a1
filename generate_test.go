package skemagen_test

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	skemagen "github.com/skemagen/skemagen"
	js "github.com/skemagen/skemagen/jsonschema"
)

// normalize marshals v to JSON and unmarshals back into interface{} to remove ordering effects.
func normalize(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	_ = json.Unmarshal(b, &out)
	return out
}

func buildingZone() *skemagen.TypeDescriptor {
	return skemagen.EnumType("BuildingZone", "Residential", "Commercial", "Industrial")
}

// buildingType is the documented three-member sample: required strings with
// a max length, a format, and an enum constraint.
func buildingType() *skemagen.TypeDescriptor {
	return skemagen.ObjectType("Building",
		skemagen.Member("address", skemagen.StringType(),
			skemagen.Required(), skemagen.MaxLength(100)),
		skemagen.Member("phone", skemagen.StringType(),
			skemagen.Required(), skemagen.Format("phone")),
		skemagen.Member("zone", skemagen.StringType(),
			skemagen.Required(), skemagen.EnumConstraint(buildingZone())),
	)
}

func TestGenerate_EndToEndBuilding(t *testing.T) {
	res, err := skemagen.Generate(buildingType(), skemagen.Options{})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}

	got := normalize(res.Schema)
	want := normalize(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"address": map[string]any{"type": "string", "maxLength": 100},
			"phone":   map[string]any{"type": "string", "format": "phone"},
			"zone": map[string]any{
				"type": "string",
				"enum": []any{"Residential", "Commercial", "Industrial"},
			},
		},
		"required": []any{"address", "phone", "zone"},
	})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("schema mismatch\n got=%v\nwant=%v", got, want)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	first, err := skemagen.Generate(buildingType(), skemagen.Options{})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	b1, err := json.Marshal(first.Schema)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for i := 0; i < 5; i++ {
		res, err := skemagen.Generate(buildingType(), skemagen.Options{})
		if err != nil {
			t.Fatalf("Generate err: %v", err)
		}
		b2, err := json.Marshal(res.Schema)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if !bytes.Equal(b1, b2) {
			t.Fatalf("output not byte-identical\n got=%s\nwant=%s", b2, b1)
		}
	}
}

func TestGenerate_RequiredNamesExistInProperties(t *testing.T) {
	res, err := skemagen.Generate(buildingType(), skemagen.Options{})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	for _, name := range res.Schema.Required {
		if !res.Schema.Properties.Has(name) {
			t.Fatalf("required name %q missing from properties", name)
		}
	}
}

func TestGenerate_RequirednessPolicies(t *testing.T) {
	desc := skemagen.ObjectType("Profile",
		skemagen.Member("id", skemagen.StringType(), skemagen.Required()),
		skemagen.Member("name", skemagen.StringType()),
		skemagen.Member("nickname", skemagen.NullableOf(skemagen.StringType())),
	)

	// annotation-only: just id
	res, err := skemagen.Generate(desc, skemagen.Options{Requiredness: skemagen.RequireAnnotated})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if !reflect.DeepEqual(res.Schema.Required, []string{"id"}) {
		t.Fatalf("annotation-only required mismatch: %v", res.Schema.Required)
	}

	// annotation-or-non-nullable: id and name, never the nullable member
	res, err = skemagen.Generate(desc, skemagen.Options{Requiredness: skemagen.RequireNonNullable})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if !reflect.DeepEqual(res.Schema.Required, []string{"id", "name"}) {
		t.Fatalf("non-nullable required mismatch: %v", res.Schema.Required)
	}
}

func TestGenerate_NullableUnion(t *testing.T) {
	desc := skemagen.ObjectType("Note",
		skemagen.Member("body", skemagen.NullableOf(skemagen.StringType())),
	)
	res, err := skemagen.Generate(desc, skemagen.Options{})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	got := normalize(res.Schema.Properties.Get("body"))
	want := normalize(map[string]any{"type": []any{"string", "null"}})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("nullable must be a type union\n got=%v\nwant=%v", got, want)
	}
}

func TestGenerate_ArrayAndDictionary(t *testing.T) {
	desc := skemagen.ObjectType("Inventory",
		skemagen.Member("tags", skemagen.ArrayOf(skemagen.StringType())),
		skemagen.Member("counts", skemagen.DictionaryOf(skemagen.StringType(), skemagen.IntegerType())),
	)
	res, err := skemagen.Generate(desc, skemagen.Options{})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	got := normalize(res.Schema)
	want := normalize(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"counts": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "integer"},
			},
		},
	})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("structural kinds mismatch\n got=%v\nwant=%v", got, want)
	}
}

func TestGenerate_EnumMemberType(t *testing.T) {
	desc := skemagen.ObjectType("Building",
		skemagen.Member("zone", buildingZone()),
	)
	res, err := skemagen.Generate(desc, skemagen.Options{})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	got := normalize(res.Schema.Properties.Get("zone"))
	want := normalize(map[string]any{
		"type": "string",
		"enum": []any{"Residential", "Commercial", "Industrial"},
	})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("enum member mismatch\n got=%v\nwant=%v", got, want)
	}
}

func TestGenerate_UnknownAnnotationPolicies(t *testing.T) {
	desc := skemagen.ObjectType("Widget",
		skemagen.Member("id", skemagen.StringType(),
			skemagen.Unrecognized("x-custom"), skemagen.Required()),
	)

	// default: ignored, Required still applies
	res, err := skemagen.Generate(desc, skemagen.Options{})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if !reflect.DeepEqual(res.Schema.Required, []string{"id"}) {
		t.Fatalf("required lost around an ignored annotation: %v", res.Schema.Required)
	}

	// fail-fast: abort with the member path
	_, err = skemagen.Generate(desc, skemagen.Options{UnknownAnnotations: skemagen.UnknownFail})
	iss, ok := skemagen.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got %v", err)
	}
	if iss[0].Code != skemagen.CodeUnknownAnnotation || iss[0].Path != "/id" {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}
}

func TestGenerate_ConflictingFormatsLastWins(t *testing.T) {
	desc := skemagen.ObjectType("Contact",
		skemagen.Member("line", skemagen.StringType(),
			skemagen.Format("phone"), skemagen.Format("email")),
	)
	res, err := skemagen.Generate(desc, skemagen.Options{})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if got := res.Schema.Properties.Get("line").Format; got != "email" {
		t.Fatalf("last-declared format must win, got %q", got)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != skemagen.CodeAnnotationConflict {
		t.Fatalf("conflict resolution must be recorded: %v", res.Warnings)
	}
	if res.Warnings[0].Path != "/line" {
		t.Fatalf("conflict path mismatch: %q", res.Warnings[0].Path)
	}
}

func TestGenerate_AdditiveConstraintsOnOneMember(t *testing.T) {
	desc := skemagen.ObjectType("Contact",
		skemagen.Member("line", skemagen.StringType(),
			skemagen.MaxLength(100), skemagen.Format("phone"), skemagen.MinLength(2)),
	)
	res, err := skemagen.Generate(desc, skemagen.Options{})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	got := normalize(res.Schema.Properties.Get("line"))
	want := normalize(map[string]any{
		"type":      "string",
		"format":    "phone",
		"maxLength": 100,
		"minLength": 2,
	})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("fragments must merge additively\n got=%v\nwant=%v", got, want)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unrelated keys must not conflict: %v", res.Warnings)
	}
}

func TestGenerate_CustomHandlerOverride(t *testing.T) {
	// Per-call table extension: route unrecognized annotations to a format.
	desc := skemagen.ObjectType("Doc",
		skemagen.Member("body", skemagen.StringType(), skemagen.Unrecognized("markdown")),
	)
	opt := skemagen.Options{
		Handlers: map[skemagen.AnnotationKind]skemagen.Handler{
			skemagen.AnnUnrecognized: func(a skemagen.Annotation) (*js.Schema, bool, bool) {
				return &js.Schema{Format: a.Raw}, false, true
			},
		},
	}
	res, err := skemagen.Generate(desc, opt)
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if got := res.Schema.Properties.Get("body").Format; got != "markdown" {
		t.Fatalf("custom handler not applied, got %q", got)
	}
}

func TestGenerate_CustomHandlerTypeOverrideIsRecorded(t *testing.T) {
	// Overwriting the type keyword resolves last-write-wins like any other
	// directly conflicting key, and the resolution is recorded.
	desc := skemagen.ObjectType("Doc",
		skemagen.Member("id", skemagen.StringType(), skemagen.Unrecognized("uuid")),
	)
	opt := skemagen.Options{
		Handlers: map[skemagen.AnnotationKind]skemagen.Handler{
			skemagen.AnnUnrecognized: func(a skemagen.Annotation) (*js.Schema, bool, bool) {
				return &js.Schema{Type: js.Types("integer")}, false, true
			},
		},
	}
	res, err := skemagen.Generate(desc, opt)
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	got := normalize(res.Schema.Properties.Get("id"))
	if !reflect.DeepEqual(got, normalize(map[string]any{"type": "integer"})) {
		t.Fatalf("type override must win, got %v", got)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != skemagen.CodeAnnotationConflict {
		t.Fatalf("type overwrite must be recorded: %v", res.Warnings)
	}
	if kw, _ := res.Warnings[0].Params["keyword"].(string); kw != "type" || res.Warnings[0].Path != "/id" {
		t.Fatalf("conflict detail mismatch: %+v", res.Warnings[0])
	}
}

func TestGenerate_MaxDistinctTypesGuard(t *testing.T) {
	desc := skemagen.ObjectType("Wide",
		skemagen.Member("a", skemagen.StringType()),
		skemagen.Member("b", skemagen.StringType()),
		skemagen.Member("c", skemagen.StringType()),
	)
	_, err := skemagen.Generate(desc, skemagen.Options{MaxDistinctTypes: 2})
	iss, ok := skemagen.AsIssues(err)
	if !ok || iss[0].Code != skemagen.CodeTooManyTypes {
		t.Fatalf("expected too_many_types, got %v", err)
	}

	// generous limit passes
	if _, err := skemagen.Generate(desc, skemagen.Options{MaxDistinctTypes: 10}); err != nil {
		t.Fatalf("Generate err under generous limit: %v", err)
	}
}

func TestGenerate_NilRoot(t *testing.T) {
	_, err := skemagen.Generate(nil, skemagen.Options{})
	iss, ok := skemagen.AsIssues(err)
	if !ok || iss[0].Code != skemagen.CodeUnrepresentableType {
		t.Fatalf("expected unrepresentable_type, got %v", err)
	}
}

func TestGenerate_TypeParamIsUnrepresentable(t *testing.T) {
	desc := skemagen.ObjectType("Box",
		skemagen.Member("value", &skemagen.TypeDescriptor{Name: "T", Kind: skemagen.KindTypeParam}),
	)
	_, err := skemagen.Generate(desc, skemagen.Options{})
	iss, ok := skemagen.AsIssues(err)
	if !ok || iss[0].Code != skemagen.CodeUnrepresentableType {
		t.Fatalf("expected unrepresentable_type, got %v", err)
	}
	if iss[0].Path != "/value" {
		t.Fatalf("issue must name the member path, got %q", iss[0].Path)
	}
}

func TestGenerate_DictionaryKeyMustBeString(t *testing.T) {
	desc := skemagen.ObjectType("Lookup",
		skemagen.Member("byID", skemagen.DictionaryOf(skemagen.IntegerType(), skemagen.StringType())),
	)
	_, err := skemagen.Generate(desc, skemagen.Options{})
	iss, ok := skemagen.AsIssues(err)
	if !ok || iss[0].Code != skemagen.CodeUnrepresentableType {
		t.Fatalf("expected unrepresentable_type, got %v", err)
	}
}
