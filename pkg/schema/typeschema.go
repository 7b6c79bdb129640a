package schema

import (
	"github.com/arborvalid/jsonschema/pkg/validerr"
)

// TypeSchema is assembled from a JSON object schema once "$ref" has
// been ruled out, per spec §4.2.
type TypeSchema struct {
	// ByType holds, for each dispatch Type, the validator to run when
	// the instance has that type. A nil entry means that type is not
	// accepted by this schema at all.
	ByType [numTypes]Node

	HasEnum bool
	Enum    []any

	HasConst bool
	Const    any

	// Logic holds, in the order "not", "allOf", "anyOf", "oneOf" were
	// found (any subset, any of which may be absent), the combinator
	// nodes to additionally run.
	Logic []Node

	If, Then, Else Node
}

func (t *TypeSchema) Validate(instance any, instanceLoc, keywordLoc string, sink validerr.Sink) {
	typ := Classify(instance)
	if typ >= 0 && int(typ) < numTypes && t.ByType[typ] != nil {
		t.ByType[typ].Validate(instance, instanceLoc, appendLoc(keywordLoc, "type"), sink)
	} else {
		sink.Error(instanceLoc, appendLoc(keywordLoc, "type"), "unexpected instance type", instance)
	}

	if t.HasEnum {
		seen := false
		for _, e := range t.Enum {
			if DeepEqual(instance, e) {
				seen = true
				break
			}
		}
		if !seen {
			sink.Error(instanceLoc, appendLoc(keywordLoc, "enum"), "instance not found in required enum", instance)
		}
	}

	if t.HasConst && !DeepEqual(instance, t.Const) {
		sink.Error(instanceLoc, appendLoc(keywordLoc, "const"), "instance not const", instance)
	}

	for _, l := range t.Logic {
		l.Validate(instance, instanceLoc, keywordLoc, sink)
	}

	if t.If != nil {
		scratch := &validerr.ScratchSink{}
		t.If.Validate(instance, instanceLoc, appendLoc(keywordLoc, "if"), scratch)
		if !scratch.Failed() {
			if t.Then != nil {
				t.Then.Validate(instance, instanceLoc, appendLoc(keywordLoc, "then"), sink)
			}
		} else if t.Else != nil {
			t.Else.Validate(instance, instanceLoc, appendLoc(keywordLoc, "else"), sink)
		}
	}
}
