package schema

import (
	"fmt"

	"github.com/arborvalid/jsonschema/pkg/validerr"
)

// epsilon is the float64 machine epsilon, used exactly as the
// original C++ numeric<T>::violates_multiple_of compares against
// std::numeric_limits<json::number_float_t>::epsilon().
const epsilon = 2.220446049250313e-16

// NumericNode implements the "maximum", "minimum", "exclusiveMaximum",
// "exclusiveMinimum", and "multipleOf" keywords.
//
// A single struct serves the integer/unsigned/float dispatch slots
// (spec §4.3's Numeric<T> family): the magnitude comparisons don't
// depend on which of the three type tags the instance carries, only
// on its float64 value, so there's no need for three parameterized
// variants the way the C++ template produces three distinct classes.
type NumericNode struct {
	HasMaximum       bool
	Maximum          float64
	ExclusiveMaximum bool

	HasMinimum       bool
	Minimum          float64
	ExclusiveMinimum bool

	HasMultipleOf bool
	MultipleOf    float64
}

func (n *NumericNode) Validate(instance any, instanceLoc, keywordLoc string, sink validerr.Sink) {
	value, ok := NumberValue(instance)
	if !ok {
		return
	}

	// multipleOf: casts the quotient via integer truncation before
	// measuring the residual. This is a documented quirk of the
	// source (spec §9.2): for values outside the int64 range this
	// silently gives the wrong answer instead of using fmod. We
	// reproduce it rather than "fixing" it.
	if n.HasMultipleOf && value != 0 {
		quotient := int64(value / n.MultipleOf)
		residual := value - float64(quotient)*n.MultipleOf
		if residual < 0 {
			residual = -residual
		}
		if residual > epsilon {
			sink.Error(instanceLoc, appendLoc(keywordLoc, "multipleOf"),
				fmt.Sprintf("is not a multiple of %v", n.MultipleOf), instance)
		}
	}

	if n.HasMaximum {
		if (n.ExclusiveMaximum && value >= n.Maximum) || (!n.ExclusiveMaximum && value > n.Maximum) {
			kw := "maximum"
			if n.ExclusiveMaximum {
				kw = "exclusiveMaximum"
			}
			sink.Error(instanceLoc, appendLoc(keywordLoc, kw),
				fmt.Sprintf("exceeds maximum of %v", n.Maximum), instance)
		}
	}

	if n.HasMinimum {
		if (n.ExclusiveMinimum && value <= n.Minimum) || (!n.ExclusiveMinimum && value < n.Minimum) {
			kw := "minimum"
			if n.ExclusiveMinimum {
				kw = "exclusiveMinimum"
			}
			sink.Error(instanceLoc, appendLoc(keywordLoc, kw),
				fmt.Sprintf("is below minimum of %v", n.Minimum), instance)
		}
	}
}

// compileNumeric builds a NumericNode from the recognized keywords
// still present in obj. It erases everything it consumes. The caller
// only invokes this when at least one of the integer/unsigned/float
// slots was actually requested by "type" — matching type_schema::make,
// which only constructs a numeric<T> for a requested type, leaving
// the numeric keywords untouched (and thus available to be stashed as
// unknown keywords) when "type" excludes every numeric slot.
//
// Per spec §9.1 / original_source: the exclusive form of a bound
// always wins over the inclusive one when both are present, because
// the original always checks the inclusive keyword first and the
// exclusive keyword second, unconditionally overwriting. This has
// nothing to do with the order the keys appear in the JSON text.
func compileNumeric(obj map[string]any, consume func(string)) *NumericNode {
	n := &NumericNode{}

	if v, ok := obj["maximum"]; ok {
		if f, ok := NumberValue(v); ok {
			n.HasMaximum, n.Maximum = true, f
		}
		consume("maximum")
	}
	if v, ok := obj["minimum"]; ok {
		if f, ok := NumberValue(v); ok {
			n.HasMinimum, n.Minimum = true, f
		}
		consume("minimum")
	}
	if v, ok := obj["exclusiveMaximum"]; ok {
		if f, ok := NumberValue(v); ok {
			n.HasMaximum, n.Maximum, n.ExclusiveMaximum = true, f, true
		}
		consume("exclusiveMaximum")
	}
	if v, ok := obj["exclusiveMinimum"]; ok {
		if f, ok := NumberValue(v); ok {
			n.HasMinimum, n.Minimum, n.ExclusiveMinimum = true, f, true
		}
		consume("exclusiveMinimum")
	}
	if v, ok := obj["multipleOf"]; ok {
		if f, ok := NumberValue(v); ok {
			n.HasMultipleOf, n.MultipleOf = true, f
		}
		consume("multipleOf")
	}

	return n
}
