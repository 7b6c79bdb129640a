package schema

import "github.com/arborvalid/jsonschema/pkg/validerr"

// SchemaRef is the indirection node a "$ref" compiles to (spec
// §4.10). It forwards to Target once the registry resolves it.
//
// Per spec §9.4 / original_source's schema_ref::set_target: there is
// deliberately no idempotence guard on SetTarget. A second distinct
// resolution silently overwrites the first — the registry's own
// bookkeeping (RootSchema.insert only ever resolves a given pointer
// once, per the "no (location,pointer) registered twice" invariant)
// is what's supposed to prevent that from happening in practice, not
// a check here.
type SchemaRef struct {
	ID     string
	Target Node
}

func (r *SchemaRef) Validate(instance any, instanceLoc, keywordLoc string, sink validerr.Sink) {
	if r.Target != nil {
		r.Target.Validate(instance, instanceLoc, keywordLoc, sink)
		return
	}
	sink.Error(instanceLoc, keywordLoc, "unresolved schema-reference "+r.ID, instance)
}

// SetTarget assigns the node this reference forwards to.
func (r *SchemaRef) SetTarget(target Node) {
	r.Target = target
}
