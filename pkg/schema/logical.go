package schema

import (
	"strconv"

	"github.com/arborvalid/jsonschema/pkg/validerr"
)

// LogicalNotNode implements the "not" keyword (spec §4.8): the
// sub-schema is run against a scratch sink, and its outcome is
// negated.
type LogicalNotNode struct {
	Sub Node
}

func (n *LogicalNotNode) Validate(instance any, instanceLoc, keywordLoc string, sink validerr.Sink) {
	scratch := &validerr.ScratchSink{}
	n.Sub.Validate(instance, instanceLoc, appendLoc(keywordLoc, "not"), scratch)
	if !scratch.Failed() {
		sink.Error(instanceLoc, appendLoc(keywordLoc, "not"),
			"instance is valid, whereas it should NOT be as required by schema", instance)
	}
}

// CombinatorKind distinguishes the three logical-combination
// keywords, per spec §4.9.
type CombinatorKind int

const (
	AllOf CombinatorKind = iota
	AnyOf
	OneOf
)

func (k CombinatorKind) keyword() string {
	switch k {
	case AllOf:
		return "allOf"
	case AnyOf:
		return "anyOf"
	case OneOf:
		return "oneOf"
	default:
		return "?"
	}
}

// LogicalCombinationNode implements "allOf"/"anyOf"/"oneOf", per spec
// §4.9 and the combinator laws in §8: an empty allOf accepts (the
// loop below never finds a failure), an empty anyOf/oneOf rejects
// (count stays 0).
type LogicalCombinationNode struct {
	Kind CombinatorKind
	Subs []Node
}

func (c *LogicalCombinationNode) Validate(instance any, instanceLoc, keywordLoc string, sink validerr.Sink) {
	kw := c.Kind.keyword()
	count := 0

	for i, sub := range c.Subs {
		scratch := &validerr.ScratchSink{}
		subKeywordLoc := appendLoc(appendLoc(keywordLoc, kw), strconv.Itoa(i))
		sub.Validate(instance, instanceLoc, subKeywordLoc, scratch)

		if scratch.Failed() {
			if c.Kind == AllOf {
				sink.Error(instanceLoc, appendLoc(keywordLoc, kw),
					"at least one schema has failed, but ALLOF them are required to validate", instance)
				return
			}
		} else {
			count++
		}

		if c.Kind == OneOf && count > 1 {
			sink.Error(instanceLoc, appendLoc(keywordLoc, kw),
				"more than one schema has succeeded, but only ONEOF them is required to validate", instance)
			return
		}
		if c.Kind == AnyOf && count == 1 {
			return
		}
	}

	if (c.Kind == AnyOf || c.Kind == OneOf) && count == 0 {
		sink.Error(instanceLoc, appendLoc(keywordLoc, kw),
			"no validation has succeeded but ANYOF/ONEOF them is required to validate", instance)
	}
}
