package validerr_test

import (
	"errors"
	"testing"

	"github.com/arborvalid/jsonschema/pkg/validerr"
)

func TestCollectingSinkAccumulatesInOrder(t *testing.T) {
	s := &validerr.CollectingSink{}
	if s.Failed() {
		t.Fatalf("Failed() = true before any Error call")
	}
	s.Error("/a", "#/properties/a/type", "unexpected instance type", "x")
	s.Error("/b", "#/required", "required property 'b' not found", nil)

	if !s.Failed() {
		t.Fatalf("Failed() = false after Error calls")
	}
	if len(s.Errs) != 2 {
		t.Fatalf("len(Errs) = %d, want 2", len(s.Errs))
	}
	if s.Errs[0].InstanceLocation != "/a" || s.Errs[1].InstanceLocation != "/b" {
		t.Fatalf("Errs out of order: %+v", s.Errs)
	}
}

func TestCollectingSinkErrSingleVsMultiple(t *testing.T) {
	s := &validerr.CollectingSink{}
	if err := s.Err(); err != nil {
		t.Fatalf("Err() on empty sink = %v, want nil", err)
	}

	s.Error("", "#/type", "unexpected instance type", 5)
	err := s.Err()
	var ve *validerr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("single error: Err() = %T, want *ValidationError", err)
	}

	s.Error("", "#/minimum", "exceeds maximum of 10", 5)
	err = s.Err()
	var ves *validerr.ValidationErrors
	if !errors.As(err, &ves) {
		t.Fatalf("two errors: Err() = %T, want *ValidationErrors", err)
	}
	if len(ves.Errs) != 2 {
		t.Fatalf("ValidationErrors.Errs has %d entries, want 2", len(ves.Errs))
	}
}

func TestValidationErrorMessage(t *testing.T) {
	ve := &validerr.ValidationError{
		Message:          "exceeds maximum of 10",
		KeywordLocation:  "#/maximum",
		InstanceLocation: "/count",
	}
	if got, want := ve.Error(), "#/maximum: exceeds maximum of 10"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationErrorDefaultsKeywordLocationToRoot(t *testing.T) {
	ve := &validerr.ValidationError{Message: "boom"}
	if got, want := ve.Error(), "#: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsValidationError(t *testing.T) {
	if !validerr.IsValidationError(&validerr.ValidationError{Message: "x"}) {
		t.Errorf("IsValidationError(*ValidationError) = false")
	}
	if !validerr.IsValidationError(&validerr.ValidationErrors{}) {
		t.Errorf("IsValidationError(*ValidationErrors) = false")
	}
	if validerr.IsValidationError(errors.New("plain")) {
		t.Errorf("IsValidationError(plain error) = true")
	}
}

func TestRunThrowingStopsAtFirstError(t *testing.T) {
	calls := 0
	err := validerr.RunThrowing(func() {
		sink := validerr.ThrowingSink{}
		sink.Error("/a", "#/type", "unexpected instance type", "x")
		calls++
		t.Fatalf("unreachable: ThrowingSink.Error should unwind via panic before returning")
	})
	if calls != 0 {
		t.Fatalf("calls = %d, want 0 (panic should have unwound before increment)", calls)
	}
	var ve *validerr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("RunThrowing err = %T, want *ValidationError", err)
	}
	if ve.InstanceLocation != "/a" {
		t.Errorf("InstanceLocation = %q, want /a", ve.InstanceLocation)
	}
}

func TestRunThrowingNoErrorReturnsNil(t *testing.T) {
	err := validerr.RunThrowing(func() {})
	if err != nil {
		t.Fatalf("RunThrowing with no Error call = %v, want nil", err)
	}
}

func TestRunThrowingRepanicsUnrelatedPanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected unrelated panic to propagate")
		}
	}()
	validerr.RunThrowing(func() {
		panic("unrelated")
	})
}

func TestScratchSinkIsolatesFailure(t *testing.T) {
	s := &validerr.ScratchSink{}
	if s.Failed() {
		t.Fatalf("Failed() = true before any Error call")
	}
	s.Error("", "", "boom", nil)
	if !s.Failed() {
		t.Fatalf("Failed() = false after Error call")
	}
}
