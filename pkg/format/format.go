// Package format implements an opt-in default checker for the
// "format" string keyword. A caller that doesn't want format checking
// at all simply never sets jsonschema.Option WithFormatChecker, in
// which case spec §4.4's "format keyword present, no checker
// configured" error fires instead — this package exists for callers
// who want draft-07's common formats checked the way this corpus does
// it, rather than writing their own.
package format

import "github.com/arborvalid/jsonschema/pkg/schema"

// Check dispatches to the named format's checker. An unrecognized
// format name is accepted (this mirrors the upstream behavior of
// ignoring format names it doesn't know, rather than failing every
// instance against a typo'd or newer-draft format keyword).
func Check(name, value string) error {
	switch name {
	case "date":
		return checkDate(value)
	case "date-time":
		return checkDateTime(value)
	case "time":
		return checkTime(value)
	case "duration":
		return checkDuration(value)
	case "email":
		return checkEmail(value, false)
	case "idn-email":
		return checkEmail(value, true)
	case "hostname":
		return checkHostname(value, false)
	case "idn-hostname":
		return checkHostname(value, true)
	case "ipv4":
		return checkIPv4(value)
	case "ipv6":
		return checkIPv6(value)
	case "uri":
		return checkURI(value, false)
	case "uri-reference":
		return checkURI(value, true)
	case "regex":
		return checkRegex(value)
	case "json-pointer":
		return checkJSONPointer(value)
	case "relative-json-pointer":
		return checkRelativeJSONPointer(value)
	case "uuid":
		return checkUUID(value)
	default:
		return nil
	}
}

// Checker is the default FormatChecker built from this package, ready
// to pass to jsonschema.WithFormatChecker.
var Checker schema.FormatChecker = Check
