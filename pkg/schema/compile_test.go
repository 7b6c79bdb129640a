package schema

import (
	"encoding/json"
	"testing"

	"github.com/arborvalid/jsonschema/pkg/jsonuri"
	"github.com/arborvalid/jsonschema/pkg/validerr"
)

func rootFor(t *testing.T, docJSON string) *RootSchema {
	t.Helper()
	r := NewRootSchema(nil, nil)
	if err := r.SetRootSchema([]byte(docJSON)); err != nil {
		t.Fatalf("SetRootSchema: %v", err)
	}
	return r
}

func validates(node Node, instance any) bool {
	sink := &validerr.ScratchSink{}
	node.Validate(instance, "", "", sink)
	return !sink.Failed()
}

func TestCompileNumericNonNilWhenRequestedWithNoKeywords(t *testing.T) {
	r := rootFor(t, `{"type":"integer"}`)
	node, err := r.RootNode()
	if err != nil {
		t.Fatalf("RootNode: %v", err)
	}
	ts, ok := node.(*TypeSchema)
	if !ok {
		t.Fatalf("root node is %T, want *TypeSchema", node)
	}
	if ts.ByType[TypeInteger] == nil {
		t.Fatalf("ByType[TypeInteger] is nil even though \"type\":\"integer\" was requested with no numeric keywords")
	}
	if !validates(node, 5) {
		t.Fatalf("5 should validate against a bare {\"type\":\"integer\"} schema")
	}
}

func TestCompileStringNonNilWhenRequestedWithNoKeywords(t *testing.T) {
	r := rootFor(t, `{"type":"string"}`)
	node, _ := r.RootNode()
	ts := node.(*TypeSchema)
	if ts.ByType[TypeString] == nil {
		t.Fatalf("ByType[TypeString] is nil even though \"type\":\"string\" was requested with no string keywords")
	}
	if !validates(node, "anything") {
		t.Fatalf("a bare string should validate against a bare {\"type\":\"string\"} schema")
	}
}

func TestNonRequestedTypeSlotsAreNilAndUntouched(t *testing.T) {
	r := rootFor(t, `{"type":"integer"}`)
	node, _ := r.RootNode()
	ts := node.(*TypeSchema)
	if ts.ByType[TypeString] != nil {
		t.Fatalf("ByType[TypeString] should be nil: \"string\" was never requested")
	}
	if ts.ByType[TypeObject] != nil {
		t.Fatalf("ByType[TypeObject] should be nil: \"object\" was never requested")
	}
	if ts.ByType[TypeArray] != nil {
		t.Fatalf("ByType[TypeArray] should be nil: \"array\" was never requested")
	}
}

func TestIrrelevantInvalidPatternUnderNonStringTypeIsInert(t *testing.T) {
	// A "pattern" keyword only means something for "type":"string". An
	// invalid regex under it must not fail compilation of a schema that
	// never requested the string slot in the first place.
	r := NewRootSchema(nil, nil)
	if err := r.SetRootSchema([]byte(`{"type":"integer","pattern":"("}`)); err != nil {
		t.Fatalf("SetRootSchema: unexpected error for irrelevant invalid pattern: %v", err)
	}
	node, _ := r.RootNode()
	if !validates(node, 5) {
		t.Fatalf("5 should satisfy {\"type\":\"integer\",\"pattern\":\"(\"}")
	}
}

func TestPropertiesUnderNonObjectTypeIsNotCompiled(t *testing.T) {
	r := rootFor(t, `{"type":"integer","properties":{"a":{"type":"string"}}}`)
	node, _ := r.RootNode()
	ts := node.(*TypeSchema)
	if ts.ByType[TypeObject] != nil {
		t.Fatalf("ByType[TypeObject] should be nil: \"object\" was never requested, so \"properties\" must not have been compiled")
	}
}

func TestNumberTypeAliasesIntoIntegerAndUnsignedSlots(t *testing.T) {
	r := rootFor(t, `{"type":"number","minimum":0}`)
	node, _ := r.RootNode()
	ts := node.(*TypeSchema)

	if ts.ByType[TypeFloat] == nil {
		t.Fatalf("ByType[TypeFloat] is nil")
	}
	if ts.ByType[TypeInteger] == nil {
		t.Fatalf("ByType[TypeInteger] is nil: a literal-integer-valued number must still satisfy \"type\":\"number\"")
	}
	if ts.ByType[TypeUnsigned] == nil {
		t.Fatalf("ByType[TypeUnsigned] is nil: a literal-integer-valued number must still satisfy \"type\":\"number\"")
	}

	if !validates(node, 5) {
		t.Fatalf("integer-valued 5 should satisfy {\"type\":\"number\",\"minimum\":0}")
	}
	if validates(node, -5) {
		t.Fatalf("-5 should fail the aliased minimum check")
	}
}

func TestOneOfBranchesKeepIndependentTypeSlots(t *testing.T) {
	r := rootFor(t, `{"oneOf":[{"type":"integer","maximum":0},{"type":"number","minimum":0}]}`)
	node, _ := r.RootNode()

	// -5 satisfies only the first branch (integer, <= 0); 5 satisfies
	// only the second (number, >= 0). Exactly one branch passing in
	// each case is what oneOf requires.
	if !validates(node, -5) {
		t.Fatalf("-5 should satisfy exactly the integer<=0 branch")
	}
	if !validates(node, 5) {
		t.Fatalf("5 should satisfy exactly the number>=0 branch")
	}
	// 0 satisfies both branches (integer<=0 and number>=0), so oneOf
	// should reject it.
	if validates(node, 0) {
		t.Fatalf("0 satisfies both branches and should fail oneOf")
	}
}

func TestDanglingIfWithoutThenOrElseIsNotConsumed(t *testing.T) {
	r := rootFor(t, `{
		"if": {"type": "integer"},
		"definitions": {"x": {"type": "string"}}
	}`)
	node, _ := r.RootNode()
	ts := node.(*TypeSchema)
	if ts.If != nil {
		t.Fatalf("If was compiled even though neither then nor else is present")
	}

	// Every type should still be accepted since "if" alone imposes no
	// constraint and was left as an unpromoted unknown keyword.
	for _, instance := range []any{5, "x", true, nil} {
		if !validates(node, instance) {
			t.Fatalf("instance %v unexpectedly rejected by a schema whose only keyword is a dangling \"if\"", instance)
		}
	}
}

func TestDanglingIfIsPromotableViaRef(t *testing.T) {
	r := rootFor(t, `{
		"definitions": {
			"holder": {"if": {"type": "integer"}}
		},
		"$ref": "#/definitions/holder/if"
	}`)
	node, err := r.RootNode()
	if err != nil {
		t.Fatalf("RootNode: %v", err)
	}
	if !validates(node, 5) {
		t.Fatalf("5 should validate against the promoted {\"type\":\"integer\"} schema")
	}
	if validates(node, "x") {
		t.Fatalf(`"x" should not validate against the promoted {"type":"integer"} schema`)
	}
}

func TestIDAppendedNotReplacedAcrossAncestry(t *testing.T) {
	r := rootFor(t, `{
		"$id": "https://example.com/outer.json",
		"definitions": {
			"inner": {
				"$id": "https://example.com/inner.json",
				"type": "string"
			}
		},
		"$ref": "#/definitions/inner"
	}`)
	node, err := r.RootNode()
	if err != nil {
		t.Fatalf("RootNode: %v", err)
	}
	if !validates(node, "ok") {
		t.Fatalf(`"ok" should validate`)
	}

	r.mu.Lock()
	_, hasOuter := r.files["https://example.com/outer.json"]
	_, hasInner := r.files["https://example.com/inner.json"]
	r.mu.Unlock()
	if !hasOuter {
		t.Errorf("outer $id's location was not registered")
	}
	if !hasInner {
		t.Errorf("inner $id's location was not registered")
	}
}

func TestEraseAnnotationsDoesNotLeakAsUnknownKeyword(t *testing.T) {
	r := rootFor(t, `{
		"type": "integer",
		"$schema": "http://json-schema.org/draft-07/schema#",
		"title": "a count",
		"description": "how many",
		"default": 0
	}`)
	// If these annotations leaked through as unknown keywords
	// promotable via $ref, referencing them would compile a node; here
	// we only check that SetRootSchema succeeded and the schema
	// behaves as a plain integer schema, which is the only externally
	// observable consequence.
	node, _ := r.RootNode()
	if !validates(node, 5) {
		t.Fatalf("5 should validate")
	}
	if validates(node, "x") {
		t.Fatalf(`"x" should not validate`)
	}
}

func TestLoaderInvokedForExternalRef(t *testing.T) {
	fetched := make(chan string, 1)
	loaderFn := func(location string) (json.RawMessage, error) {
		fetched <- location
		return json.RawMessage(`{"type":"string"}`), nil
	}

	r := NewRootSchema(loaderFn, nil)
	if err := r.SetRootSchema([]byte(`{"$ref":"https://example.com/other.json#"}`)); err != nil {
		t.Fatalf("SetRootSchema: %v", err)
	}

	select {
	case loc := <-fetched:
		if loc != "https://example.com/other.json" {
			t.Errorf("fetched location = %q", loc)
		}
	default:
		t.Fatalf("loader was never invoked")
	}

	node, err := r.RootNode()
	if err != nil {
		t.Fatalf("RootNode: %v", err)
	}
	if !validates(node, "ok") {
		t.Fatalf(`"ok" should validate against the externally loaded {"type":"string"} schema`)
	}
}

func TestUnresolvableRefWithoutLoaderFails(t *testing.T) {
	r := NewRootSchema(nil, nil)
	err := r.SetRootSchema([]byte(`{"$ref":"https://example.com/other.json#"}`))
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestExtendURIsDoesNotMutateShared(t *testing.T) {
	base := []jsonuri.URI{{Location: "#", Pointer: "/properties"}}
	a := extendURIs(base, []string{"a"})
	b := extendURIs(base, []string{"b"})

	if a[0].Pointer == b[0].Pointer {
		t.Fatalf("extendURIs results share state: a=%v b=%v", a, b)
	}
	if base[0].Pointer != "/properties" {
		t.Fatalf("extendURIs mutated the shared base slice: %v", base)
	}
}
