// Package jsonuri implements the JSON URI model used to key compiled
// schemas: a pair of an absolute document location and a JSON Pointer
// fragment within that document.
//
// This mirrors nlohmann::json_uri from the original C++
// implementation (see original_source/extsrc/json-schema-validator in
// the retrieval pack this module was built against) rather than
// providing a fully general RFC 3986 URI type: schema authors only
// ever need derive/append/escape, never query string handling,
// user-info, or port manipulation.
package jsonuri

import (
	"net/url"
	"strconv"
	"strings"
)

// RootLocation is the location used for the root document, before any
// $id gives it a real identity.
const RootLocation = "#"

// URI is a (location, pointer) pair identifying a schema.
//
// Location is the absolute document identifier ("#" for the root
// document that has not been given a $id, otherwise the string form
// of an absolute or $id-derived URI). Pointer is the JSON Pointer
// fragment within that document, stored without its leading "#" and
// without percent-encoding — tokens are escaped/unescaped with
// Escape/Unescape, not url.QueryEscape.
type URI struct {
	Location string
	Pointer  string
}

// Parse splits a URI reference (as it would appear as a $ref or $id
// value, or as a full JSON URI string "location#pointer") into a URI.
func Parse(s string) URI {
	loc, frag, ok := strings.Cut(s, "#")
	if !ok {
		return URI{Location: loc, Pointer: ""}
	}
	if loc == "" {
		loc = RootLocation
	}
	return URI{Location: loc, Pointer: frag}
}

// String renders the URI back into "location#pointer" form.
func (u URI) String() string {
	if u.Pointer == "" {
		return u.Location + "#"
	}
	return u.Location + "#" + u.Pointer
}

// Equal reports whether two URIs refer to the same location and
// pointer.
func (u URI) Equal(o URI) bool {
	return u.Location == o.Location && u.Pointer == o.Pointer
}

// Derive resolves ref against u, the way a $ref or $id value is
// resolved against the base URI it was found under.
//
// If ref carries its own fragment, that fragment replaces u's
// pointer; otherwise u's pointer is kept. If ref's non-fragment part
// is empty, u's location is kept; otherwise it is resolved as a
// relative reference against u's location using RFC 3986 rules (via
// net/url), except when u's location is the synthetic RootLocation,
// in which case ref's location is taken verbatim (there is nothing
// meaningful to resolve a relative reference against).
func (u URI) Derive(ref string) URI {
	loc, frag, hasFrag := strings.Cut(ref, "#")

	newLoc := u.Location
	if loc != "" {
		if u.Location == RootLocation {
			newLoc = loc
		} else if base, err := url.Parse(u.Location); err == nil {
			if rel, err := url.Parse(loc); err == nil {
				newLoc = base.ResolveReference(rel).String()
			} else {
				newLoc = loc
			}
		} else {
			newLoc = loc
		}
	}

	newPtr := u.Pointer
	if hasFrag {
		newPtr = frag
	}

	return URI{Location: newLoc, Pointer: newPtr}
}

// Append returns a new URI whose pointer has had an escaped token
// appended, the way compiling a nested sub-schema ("properties",
// "foo") extends every URI a parent schema was reachable under.
func (u URI) Append(token string) URI {
	tok := Escape(token)
	if u.Pointer == "" {
		return URI{Location: u.Location, Pointer: "/" + tok}
	}
	return URI{Location: u.Location, Pointer: u.Pointer + "/" + tok}
}

// AppendIndex is a convenience for Append(strconv.Itoa(i)), used when
// descending into an array of sub-schemas (e.g. "allOf/<i>").
func (u URI) AppendIndex(i int) URI {
	return u.Append(strconv.Itoa(i))
}

// Escape converts a raw JSON object key into a JSON-Pointer-safe
// token per RFC 6901: "~" becomes "~0" and "/" becomes "~1". The
// order matters — "~" must be escaped first, or the "~1" produced for
// a "/" would itself be re-escaped to "~01".
func Escape(tok string) string {
	tok = strings.ReplaceAll(tok, "~", "~0")
	tok = strings.ReplaceAll(tok, "/", "~1")
	return tok
}

// Unescape reverses Escape.
func Unescape(tok string) string {
	tok = strings.ReplaceAll(tok, "~1", "/")
	tok = strings.ReplaceAll(tok, "~0", "~")
	return tok
}

// Tokens splits a pointer (without its leading "#") into its
// unescaped tokens. An empty pointer yields no tokens.
func Tokens(pointer string) []string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return nil
	}
	parts := strings.Split(pointer, "/")
	toks := make([]string, len(parts))
	for i, p := range parts {
		toks[i] = Unescape(p)
	}
	return toks
}
