// Package schema implements the compiled validator node graph: the
// polymorphic family of nodes from spec §4 (Boolean, Null, Numeric,
// String, Object, Array, TypeSchema, LogicalNot, LogicalCombination,
// Required, SchemaRef), the root registry that owns them (§4.11), and
// the compiler that builds the graph from an arbitrary JSON schema
// document (§4.1).
//
// This is grounded on original_source/extsrc/json-schema-validator's
// tagged-sum-of-node-types design (a shared_ptr<schema> base class per
// keyword cluster), expressed here as a Go interface with one method,
// the way the teacher repository expresses its own polymorphic
// dispatch (types.Keyword.Validate, a function value per keyword)
// while keeping the node-per-keyword-cluster shape the spec calls
// for rather than the teacher's single-keyword-table shape.
package schema

import "github.com/arborvalid/jsonschema/pkg/validerr"

// Node is a compiled unit of a schema. Every node variant implements
// Validate; combinators and TypeSchema hold other Nodes and dispatch
// to them.
//
// instanceLoc and keywordLoc are JSON Pointers (without a leading
// "#") to, respectively, the instance value and Schema keyword
// currently being checked; both grow as Validate recurses and are
// passed to sink.Error verbatim so a caller gets a basic-output-format
// compatible location pair.
type Node interface {
	Validate(instance any, instanceLoc, keywordLoc string, sink validerr.Sink)
}

// appendLoc extends a JSON Pointer location with one more escaped
// token, mirroring jsonuri.Escape/Append but operating on plain
// pointer strings since locations here are not paired with a document
// location the way compile-time URIs are.
func appendLoc(loc, token string) string {
	tok := escapeToken(token)
	if loc == "" {
		return "/" + tok
	}
	return loc + "/" + tok
}

func escapeToken(tok string) string {
	out := make([]byte, 0, len(tok))
	for i := 0; i < len(tok); i++ {
		switch tok[i] {
		case '~':
			out = append(out, '~', '0')
		case '/':
			out = append(out, '~', '1')
		default:
			out = append(out, tok[i])
		}
	}
	return string(out)
}
