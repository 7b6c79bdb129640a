package format

import (
	"fmt"
	"regexp/syntax"
)

// checkRegex requires s to parse as a regular expression under the
// same dialect "pattern"/"patternProperties" compile with elsewhere
// in this module (Go's regexp/syntax, Perl flavor) — not literal
// ECMAScript, per spec §4.4's "assumed available" regex engine.
func checkRegex(s string) error {
	if _, err := syntax.Parse(s, syntax.Perl); err != nil {
		return fmt.Errorf("%q is not a valid regexp (only Go-flavored regexps are supported)", s)
	}
	return nil
}
