package schema

import (
	"fmt"
	"regexp"

	"github.com/arborvalid/jsonschema/pkg/validerr"
)

// FormatChecker validates a string instance against a named format
// keyword value ("date-time", "email", ...). It returns a non-nil
// error describing why the value doesn't satisfy the format; a nil
// RootSchema.Format means "format" is accepted but never checked,
// matching spec §4.4's "missing-format-checker" behavior only firing
// when format IS set on a schema that has no checker configured.
type FormatChecker func(format, value string) error

// StringNode implements the "minLength", "maxLength", "pattern", and
// "format" keywords.
type StringNode struct {
	HasMinLength bool
	MinLength    int
	HasMaxLength bool
	MaxLength    int

	Pattern    *regexp.Regexp
	PatternSrc string

	HasFormat bool
	Format    string

	// formatChecker is resolved once at compile time from the
	// RootSchema the node was compiled under, since format checking
	// is a callback supplied at validator-construction time, not a
	// per-node setting.
	formatChecker FormatChecker
}

func (s *StringNode) Validate(instance any, instanceLoc, keywordLoc string, sink validerr.Sink) {
	str, ok := instance.(string)
	if !ok {
		return
	}

	length := utf8CodepointCount(str)

	if s.HasMinLength && length < s.MinLength {
		sink.Error(instanceLoc, appendLoc(keywordLoc, "minLength"),
			fmt.Sprintf("%q is too short as per minLength (%d)", str, s.MinLength), instance)
	}
	if s.HasMaxLength && length > s.MaxLength {
		sink.Error(instanceLoc, appendLoc(keywordLoc, "maxLength"),
			fmt.Sprintf("%q is too long as per maxLength (%d)", str, s.MaxLength), instance)
	}

	if s.Pattern != nil && !s.Pattern.MatchString(str) {
		sink.Error(instanceLoc, appendLoc(keywordLoc, "pattern"),
			fmt.Sprintf("%q does not match regex pattern: %s", str, s.PatternSrc), instance)
	}

	if s.HasFormat {
		if s.formatChecker == nil {
			sink.Error(instanceLoc, appendLoc(keywordLoc, "format"),
				fmt.Sprintf("a format checker was not provided but a format-attribute for this string is present, cannot be validated for %s", s.Format),
				instance)
		} else if err := s.formatChecker(s.Format, str); err != nil {
			sink.Error(instanceLoc, appendLoc(keywordLoc, "format"), err.Error(), instance)
		}
	}
}

// utf8CodepointCount approximates the number of Unicode code points
// in s the way spec §4.4 prescribes: count the bytes that are not
// UTF-8 continuation bytes (those whose top two bits are "10"), per
// the original C++ utf8_length, rather than decoding runes with
// unicode/utf8 — this is an approximation that agrees with a correct
// decoder for well-formed UTF-8 but, like the original, doesn't
// validate well-formedness itself.
func utf8CodepointCount(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i]&0xc0 != 0x80 {
			n++
		}
	}
	return n
}

// compileString builds a StringNode from the recognized keywords
// still present in obj, resolving "pattern" into a Go regexp. The
// caller only invokes this when "string" was actually requested by
// "type" — matching type_schema::make, which only constructs the
// string validator for a requested "string" slot. This matters beyond
// bookkeeping: an irrelevant "pattern" under a non-string type (e.g.
// {"type":"integer","pattern":"("}) must stay inert even if it isn't
// a valid regex, since regexp.Compile below is never reached for it.
//
// spec §4.4: pattern uses "substring match" semantics
// (regexp.MatchString already behaves this way — Go regexps are not
// anchored by default), not full-string match.
func compileString(obj map[string]any, consume func(string), formatChecker FormatChecker) (*StringNode, error) {
	s := &StringNode{formatChecker: formatChecker}

	if v, ok := obj["minLength"]; ok {
		if f, ok := NumberValue(v); ok {
			s.HasMinLength, s.MinLength = true, int(f)
		}
		consume("minLength")
	}
	if v, ok := obj["maxLength"]; ok {
		if f, ok := NumberValue(v); ok {
			s.HasMaxLength, s.MaxLength = true, int(f)
		}
		consume("maxLength")
	}
	if v, ok := obj["pattern"]; ok {
		if ps, ok := v.(string); ok {
			re, err := regexp.Compile(ps)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", ps, err)
			}
			s.Pattern, s.PatternSrc = re, ps
		}
		consume("pattern")
	}
	if v, ok := obj["format"]; ok {
		if fs, ok := v.(string); ok {
			s.HasFormat, s.Format = true, fs
		}
		consume("format")
	}

	return s, nil
}
