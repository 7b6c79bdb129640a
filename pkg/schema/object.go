package schema

import (
	"fmt"
	"regexp"

	"github.com/arborvalid/jsonschema/pkg/validerr"
)

// patternProperty pairs a compiled "patternProperties" regex with the
// sub-schema to run against any property whose name matches it.
type patternProperty struct {
	re  *regexp.Regexp
	src string
	sub Node
}

// ObjectNode implements the "maxProperties", "minProperties",
// "required", "properties", "patternProperties",
// "additionalProperties", "dependencies", and "propertyNames"
// keywords, per spec §4.5.
type ObjectNode struct {
	HasMaxProperties bool
	MaxProperties    int
	HasMinProperties bool
	MinProperties    int

	Required []string

	Properties        map[string]Node
	PatternProperties []patternProperty
	// AdditionalProperties is nil when the keyword was absent: every
	// property not matched by Properties/PatternProperties is simply
	// accepted. A {"type":"object","additionalProperties":false}
	// schema compiles this to a BooleanSchemaNode{Allow:false}, not
	// nil — "absent" and "present but false" are different.
	AdditionalProperties Node

	// Dependencies maps a property name to the node to run against
	// the *whole* instance when that property is present. A
	// dependency written as an array of strings compiles to a
	// *RequiredNode; one written as a schema compiles to whatever
	// compile produces for it.
	Dependencies map[string]Node

	PropertyNames Node
}

func (o *ObjectNode) Validate(instance any, instanceLoc, keywordLoc string, sink validerr.Sink) {
	obj, ok := instance.(map[string]any)
	if !ok {
		return
	}

	if o.HasMaxProperties && len(obj) > o.MaxProperties {
		sink.Error(instanceLoc, appendLoc(keywordLoc, "maxProperties"), "too many properties", instance)
	}
	if o.HasMinProperties && len(obj) < o.MinProperties {
		sink.Error(instanceLoc, appendLoc(keywordLoc, "minProperties"), "too few properties", instance)
	}

	for _, name := range o.Required {
		if _, present := obj[name]; !present {
			sink.Error(instanceLoc, appendLoc(keywordLoc, "required"),
				fmt.Sprintf("required property '%s' not found", name), instance)
		}
	}

	for key, value := range obj {
		propInstanceLoc := appendLoc(instanceLoc, key)

		if o.PropertyNames != nil {
			o.PropertyNames.Validate(key, propInstanceLoc, appendLoc(keywordLoc, "propertyNames"), sink)
		}

		matched := false
		if sub, ok := o.Properties[key]; ok {
			matched = true
			sub.Validate(value, propInstanceLoc, appendLoc(appendLoc(keywordLoc, "properties"), key), sink)
		}
		for _, pp := range o.PatternProperties {
			if pp.re.MatchString(key) {
				matched = true
				pp.sub.Validate(value, propInstanceLoc, appendLoc(appendLoc(keywordLoc, "patternProperties"), pp.src), sink)
			}
		}
		if !matched && o.AdditionalProperties != nil {
			o.AdditionalProperties.Validate(value, propInstanceLoc, appendLoc(keywordLoc, "additionalProperties"), sink)
		}
	}

	for name, dep := range o.Dependencies {
		if _, present := obj[name]; present {
			dep.Validate(instance, instanceLoc, appendLoc(appendLoc(keywordLoc, "dependencies"), name), sink)
		}
	}
}
