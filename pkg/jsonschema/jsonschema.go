// Package jsonschema is the public surface of the validator: build a
// [Validator] with [New], give it a schema document with
// [Validator.SetRootSchema], then check instances against it with
// [Validator.Validate] or [Validator.ValidateInto].
package jsonschema

import (
	"fmt"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"

	"github.com/arborvalid/jsonschema/pkg/schema"
	"github.com/arborvalid/jsonschema/pkg/validerr"
)

// Loader fetches the raw JSON document for an external schema
// location, as referenced by an absolute "$ref"/"$id".
type Loader = schema.Loader

// FormatChecker validates a string instance against a named "format"
// keyword value.
type FormatChecker = schema.FormatChecker

// Sink is the destination validation errors are reported to.
type Sink = validerr.Sink

// Option configures a Validator at construction time, following the
// functional-options shape the teacher's draft202012 builder uses for
// its own construction-time knobs.
type Option func(*Validator)

// WithLoader sets the callback used to fetch external schema
// documents referenced by an absolute "$ref"/"$id" this validator's
// root schema doesn't already contain.
func WithLoader(loader Loader) Option {
	return func(v *Validator) { v.loader = loader }
}

// WithFormatChecker sets the callback used to validate the "format"
// keyword. Without one, a schema that sets "format" reports a
// missing-format-checker validation error rather than being silently
// ignored — see pkg/format for a ready-made default.
func WithFormatChecker(checker FormatChecker) Option {
	return func(v *Validator) { v.formatChecker = checker }
}

// Validator compiles and holds one root JSON Schema document, ready
// to validate instances against it.
type Validator struct {
	loader        Loader
	formatChecker FormatChecker

	root *schema.RootSchema
}

// New constructs a Validator. Call SetRootSchema before Validate or
// ValidateInto.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SetRootSchema compiles data (a JSON Schema document) as this
// Validator's root schema, resolving every "$ref" it can — fetching
// external documents via the configured Loader as needed — before
// returning. An error here means the schema itself is malformed or
// unresolvable; it carries no information about any instance.
func (v *Validator) SetRootSchema(data []byte) error {
	root := schema.NewRootSchema(v.loader, v.formatChecker)
	if err := root.SetRootSchema(data); err != nil {
		return err
	}
	v.root = root
	return nil
}

// Validate validates instance against the root schema, returning the
// first error encountered (nil if none). Unlike ValidateInto, it does
// not keep validating past the first failure.
func (v *Validator) Validate(instance any) error {
	node, err := v.rootNode()
	if err != nil {
		return err
	}
	return validerr.RunThrowing(func() {
		node.Validate(instance, "", "", validerr.ThrowingSink{})
	})
}

// ValidateInto validates instance against the root schema, writing
// every failure it finds into sink, and returns sink's accumulated
// error (nil if instance conforms). Use this over Validate when a
// caller wants every failure at once rather than only the first.
func (v *Validator) ValidateInto(instance any, sink Sink) error {
	node, err := v.rootNode()
	if err != nil {
		return err
	}
	node.Validate(instance, "", "", sink)
	if sink.Failed() {
		if cs, ok := sink.(*validerr.CollectingSink); ok {
			return cs.Err()
		}
		return fmt.Errorf("instance failed validation")
	}
	return nil
}

func (v *Validator) rootNode() (schema.Node, error) {
	if v.root == nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("SetRootSchema has not been called"))
	}
	return v.root.RootNode()
}
