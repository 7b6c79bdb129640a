package schema

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Type is one of the JSON value tags dispatch is keyed on: the spec's
// "null | boolean | integer | unsigned-integer | floating | string |
// array | object". Integer/unsigned/floating are split the way
// nlohmann::json splits json::value_t, which is what the original
// implementation dispatches on.
type Type int

const (
	TypeNull Type = iota
	TypeBoolean
	TypeInteger
	TypeUnsigned
	TypeFloat
	TypeString
	TypeArray
	TypeObject

	numTypes = int(TypeObject) + 1
)

// typeInvalid is returned by Classify for a Go value that cannot
// occur in decoded JSON (e.g. a channel, a function). There is no
// validator slot for it; TypeSchema treats it like any other type
// with no validator compiled: "unexpected instance type".
const typeInvalid Type = -1

// typeNames gives the JSON Schema "type" keyword spelling for each
// Type.
var typeNames = [numTypes]string{
	TypeNull:    "null",
	TypeBoolean: "boolean",
	TypeInteger: "integer",
	TypeUnsigned: "integer", // "unsigned" is not user-facing; same schema keyword as integer
	TypeFloat:   "number",
	TypeString:  "string",
	TypeArray:   "array",
	TypeObject:  "object",
}

// schemaTypeNames is the keyword-table used by the compiler: every
// name that may appear as a "type" keyword value, paired with the
// Type(s) it selects. "integer" selects both TypeInteger and
// TypeUnsigned, matching the original source's schema_types table
// where "integer" maps to both number_integer and number_unsigned.
var schemaTypeNames = map[string][]Type{
	"null":    {TypeNull},
	"boolean": {TypeBoolean},
	"integer": {TypeInteger, TypeUnsigned},
	"number":  {TypeFloat},
	"string":  {TypeString},
	"array":   {TypeArray},
	"object":  {TypeObject},
}

// Classify reports which Type a decoded JSON value (as produced by
// encoding/json, optionally with (*json.Decoder).UseNumber, or built
// by hand with ordinary Go numeric types) belongs to.
func Classify(instance any) Type {
	switch v := instance.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case string:
		return TypeString
	case []any:
		return TypeArray
	case map[string]any:
		return TypeObject
	case json.Number:
		return classifyNumberString(string(v))
	case float64:
		return classifyFloat64(v)
	case float32:
		return classifyFloat64(float64(v))
	case int:
		return classifyInt64(int64(v))
	case int8:
		return classifyInt64(int64(v))
	case int16:
		return classifyInt64(int64(v))
	case int32:
		return classifyInt64(int64(v))
	case int64:
		return classifyInt64(v)
	case uint:
		return TypeUnsigned
	case uint8:
		return TypeUnsigned
	case uint16:
		return TypeUnsigned
	case uint32:
		return TypeUnsigned
	case uint64:
		return TypeUnsigned
	default:
		return typeInvalid
	}
}

func classifyInt64(i int64) Type {
	if i < 0 {
		return TypeInteger
	}
	return TypeUnsigned
}

// classifyFloat64 treats a whole-valued, non-negative float64 as
// unsigned and a whole-valued negative one as integer, the way
// nlohmann::json classifies a parsed JSON number by its literal
// syntax (no '.', 'e', or 'E' and it fits) rather than its magnitude.
// Go's default json.Unmarshal collapses every number to float64
// before we ever see it, so this is the best approximation available
// without UseNumber.
func classifyFloat64(f float64) Type {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return TypeFloat
	}
	if f < 0 {
		return TypeInteger
	}
	return TypeUnsigned
}

func classifyNumberString(s string) Type {
	if strings.ContainsAny(s, ".eE") {
		return TypeFloat
	}
	if strings.HasPrefix(s, "-") {
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			return TypeInteger
		}
		return TypeFloat
	}
	if _, err := strconv.ParseUint(s, 10, 64); err == nil {
		return TypeUnsigned
	}
	return TypeFloat
}

// NumberValue returns the float64 value of a numeric instance, for
// the keywords (maximum, minimum, multipleOf) that compare numeric
// magnitude regardless of the integer/unsigned/float dispatch tag.
func NumberValue(instance any) (float64, bool) {
	switch v := instance.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// DeepEqual reports whether two decoded JSON values are equal under
// JSON Schema's equality rules: object key order and map iteration
// order never matter, array order always does, and numbers compare by
// mathematical value regardless of how they happen to be represented
// (json.Number vs float64, 1 vs 1.0).
func DeepEqual(a, b any) bool {
	ta, tb := Classify(a), Classify(b)
	if ta == typeInvalid || tb == typeInvalid {
		return false
	}

	// A number compares equal to another number of a different
	// dispatch tag (1 == 1.0 == 1u).
	isNumeric := func(t Type) bool {
		return t == TypeInteger || t == TypeUnsigned || t == TypeFloat
	}
	if isNumeric(ta) && isNumeric(tb) {
		fa, _ := NumberValue(a)
		fb, _ := NumberValue(b)
		return fa == fb
	}

	if ta != tb {
		return false
	}

	switch ta {
	case TypeNull:
		return true
	case TypeBoolean:
		return a.(bool) == b.(bool)
	case TypeString:
		return a.(string) == b.(string)
	case TypeArray:
		aa, bb := a.([]any), b.([]any)
		if len(aa) != len(bb) {
			return false
		}
		for i := range aa {
			if !DeepEqual(aa[i], bb[i]) {
				return false
			}
		}
		return true
	case TypeObject:
		ao, bo := a.(map[string]any), b.(map[string]any)
		if len(ao) != len(bo) {
			return false
		}
		for k, av := range ao {
			bv, ok := bo[k]
			if !ok || !DeepEqual(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}
