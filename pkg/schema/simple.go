package schema

import "github.com/arborvalid/jsonschema/pkg/validerr"

// NullNode implements the per-type validator slot for "null"
// instances. There are no null-specific keywords in this draft, so
// this only exists to occupy the TypeNull dispatch slot and report
// the (never actually reachable, since Validate is only called when
// Classify already said TypeNull) non-null case defensively, matching
// the original's null::validate.
type NullNode struct{}

func (NullNode) Validate(instance any, instanceLoc, keywordLoc string, sink validerr.Sink) {
	if instance != nil {
		sink.Error(instanceLoc, keywordLoc, "expected to be null", instance)
	}
}

// BooleanTypeNode implements the per-type validator slot for
// "boolean" instances.
//
// Per spec §4.7 / §9.3: this accepts any boolean instance
// unconditionally. The original source has commented-out logic
// suggesting a stricter check was once considered; we do not
// reintroduce it without a spec basis for what it would even check.
type BooleanTypeNode struct{}

func (BooleanTypeNode) Validate(instance any, instanceLoc, keywordLoc string, sink validerr.Sink) {}

// BooleanSchemaNode is the *schema*, not the per-type validator: the
// JSON schema document was itself the literal JSON value true or
// false. true accepts every instance; false rejects every instance.
//
// This is a distinct node from BooleanTypeNode (spec §4.7 calls that
// one "Boolean-Type"): a boolean *schema* and a schema that merely
// requires a boolean *instance* are different things that happen to
// look similar on the page. original_source's `boolean` and
// `boolean_type` classes keep them separate for the same reason.
type BooleanSchemaNode struct {
	Allow bool
}

func (b BooleanSchemaNode) Validate(instance any, instanceLoc, keywordLoc string, sink validerr.Sink) {
	if !b.Allow {
		sink.Error(instanceLoc, keywordLoc, "instance invalid as per false-schema", instance)
	}
}

// RequiredNode backs the array-of-strings shorthand form of a
// "dependencies" entry (spec §4.5.4): when the dependency's name is
// present on the instance, the *whole* instance is validated against
// this node rather than against a single property's value. The
// "required" keyword itself is checked directly by ObjectNode, not
// through this node — the two report slightly different messages in
// the original source, which we preserve.
type RequiredNode struct {
	Required []string
}

func (r *RequiredNode) Validate(instance any, instanceLoc, keywordLoc string, sink validerr.Sink) {
	obj, ok := instance.(map[string]any)
	if !ok {
		return
	}
	for _, name := range r.Required {
		if _, present := obj[name]; !present {
			sink.Error(instanceLoc, keywordLoc,
				"required property '"+name+"' not found in object as a dependency", instance)
		}
	}
}
