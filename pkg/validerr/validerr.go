// Package validerr defines the errors reported by a failed schema
// validation, and the sink interface validator nodes report them
// through.
//
// This is grounded on the teacher repository's internal/validerr
// package: the same basic-output-shaped fields (Message,
// KeywordLocation, InstanceLocation), the same aggregate-into-a-single
// *error convention via CollectingSink.Err, and the same errors.Join-based
// rendering when more than one error accumulates.
package validerr

import (
	"errors"
	"fmt"
)

// ValidationError describes a single instance that failed to conform
// to a single keyword.
//
// The field names and JSON tags follow the JSON Schema "basic" output
// format: https://json-schema.org/draft/2020-12/json-schema-core.html#name-output-formats
type ValidationError struct {
	Message          string `json:"error"`
	KeywordLocation  string `json:"keywordLocation"`
	InstanceLocation string `json:"instanceLocation"`

	// Instance is the offending instance sub-tree, included for
	// diagnostics. It is not part of the basic output format and is
	// therefore not JSON-tagged.
	Instance any
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	kl := ve.KeywordLocation
	if kl == "" {
		kl = "#"
	}
	return fmt.Sprintf("%s: %s", kl, ve.Message)
}

// ValidationErrors aggregates more than one ValidationError.
type ValidationErrors struct {
	Errs []*ValidationError
}

// Error implements the error interface.
func (ves *ValidationErrors) Error() string {
	if len(ves.Errs) == 1 {
		return ves.Errs[0].Error()
	}
	errs := make([]error, len(ves.Errs))
	for i, ve := range ves.Errs {
		errs[i] = ve
	}
	return errors.Join(errs...).Error()
}

// Unwrap lets errors.Is/errors.As see through the aggregate.
func (ves *ValidationErrors) Unwrap() []error {
	errs := make([]error, len(ves.Errs))
	for i, ve := range ves.Errs {
		errs[i] = ve
	}
	return errs
}

// IsValidationError reports whether err is (or aggregates)
// ValidationErrors rather than a schema-compilation error.
func IsValidationError(err error) bool {
	switch err.(type) {
	case *ValidationError, *ValidationErrors:
		return true
	}
	return false
}

// Sink receives validation failures as a node walks an instance. The
// boolean readout lets a combinator (allOf/anyOf/oneOf/not/if) run a
// sub-schema against a scratch sink and inspect whether it failed
// without the sub-failures leaking to the caller's sink.
type Sink interface {
	// Error records one failure at the given instance/keyword
	// locations.
	Error(instanceLocation, keywordLocation, message string, instance any)

	// Failed reports whether Error has been called at least once.
	Failed() bool
}

// CollectingSink is a Sink that accumulates every error it is given,
// in the order reported. This is the sink most callers of
// [jsonschema.Validator.ValidateInto] will use.
type CollectingSink struct {
	Errs []*ValidationError
}

func (s *CollectingSink) Error(instanceLocation, keywordLocation, message string, instance any) {
	s.Errs = append(s.Errs, &ValidationError{
		Message:          message,
		KeywordLocation:  keywordLocation,
		InstanceLocation: instanceLocation,
		Instance:         instance,
	})
}

func (s *CollectingSink) Failed() bool { return len(s.Errs) > 0 }

// Err returns the accumulated errors as a single error value, or nil
// if none were recorded. A single error is returned unwrapped; more
// than one is wrapped in *ValidationErrors.
func (s *CollectingSink) Err() error {
	switch len(s.Errs) {
	case 0:
		return nil
	case 1:
		return s.Errs[0]
	default:
		return &ValidationErrors{Errs: append([]*ValidationError(nil), s.Errs...)}
	}
}

// stopValidation is a sentinel panic value used by ThrowingSink to
// unwind out of the node graph as soon as the first error is
// reported; it is recovered at the top of Validate and never escapes
// to the caller as a panic.
type stopValidation struct{ err *ValidationError }

// ThrowingSink is a Sink that aborts validation (via panic/recover
// contained entirely within this package) on the first error it
// sees, matching the original C++ throwing_error_handler.
type ThrowingSink struct{}

func (ThrowingSink) Error(instanceLocation, keywordLocation, message string, instance any) {
	panic(stopValidation{&ValidationError{
		Message:          message,
		KeywordLocation:  keywordLocation,
		InstanceLocation: instanceLocation,
		Instance:         instance,
	}})
}

func (ThrowingSink) Failed() bool { return false }

// RunThrowing runs fn (expected to call Validate against a
// ThrowingSink) and converts the first reported error, if any, into a
// returned error instead of a panic.
func RunThrowing(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if sv, ok := r.(stopValidation); ok {
				err = sv.err
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}

// ScratchSink is a Sink used internally by combinators (not, if,
// oneOf, contains) to probe whether a sub-schema validates without
// leaking its errors to the real sink.
type ScratchSink struct {
	failed bool
}

func (s *ScratchSink) Error(instanceLocation, keywordLocation, message string, instance any) {
	s.failed = true
}

func (s *ScratchSink) Failed() bool { return s.failed }
