package errors

import (
	"fmt"
	"testing"
	"time"
)

func TestBuildDefaults(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("test error")
	ee := New(err).Build()

	if ee.Err.Error() != "test error" {
		t.Errorf("Expected error message 'test error', got '%s'", ee.Err.Error())
	}

	if ee.GetComponent() != "unknown" {
		t.Errorf("Expected component 'unknown' when unset, got '%s'", ee.GetComponent())
	}

	if ee.Category != CategoryGeneric {
		t.Errorf("Expected category 'generic' when unset, got '%s'", ee.Category)
	}
}

func TestBuilderChain(t *testing.T) {
	t.Parallel()

	ee := Newf("species not found: %s", "amecro").
		Category(CategoryNotFound).
		Context("species_code", "amecro").
		Component("classifier").
		Build()

	if ee.GetComponent() != "classifier" {
		t.Errorf("Expected component 'classifier', got '%s'", ee.GetComponent())
	}
	if ee.Category != CategoryNotFound {
		t.Errorf("Expected category 'not-found', got '%s'", ee.Category)
	}
	if ee.Context["species_code"] != "amecro" {
		t.Errorf("Expected species_code context 'amecro', got '%v'", ee.Context["species_code"])
	}
}

func TestUnwrapPreservesOriginal(t *testing.T) {
	t.Parallel()

	original := NewStd("connection refused")
	wrapped := Newf("classifier request failed: %w", original).
		Category(CategoryNetwork).
		Build()

	if !Is(wrapped, original) {
		t.Error("Expected wrapped error to match original via errors.Is")
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	notFound := Newf("no such bird").Category(CategoryNotFound).Build()
	network := Newf("dial timeout").Category(CategoryTimeout).Build()

	if !IsNotFound(notFound) {
		t.Error("Expected IsNotFound to be true for not-found category")
	}
	if IsNotFound(network) {
		t.Error("Expected IsNotFound to be false for timeout category")
	}
	if !IsTimeout(network) {
		t.Error("Expected IsTimeout to be true for timeout category")
	}
	if IsNotFound(NewStd("plain error")) {
		t.Error("Expected IsNotFound to be false for plain errors")
	}
}

func TestContextCopy(t *testing.T) {
	t.Parallel()

	ee := Newf("err").Context("key", "value").Build()
	ctx := ee.GetContext()
	ctx["key"] = "mutated"

	if ee.Context["key"] != "value" {
		t.Error("GetContext must return a copy, original was mutated")
	}
}

func TestTimingContext(t *testing.T) {
	t.Parallel()

	ee := Newf("slow").Timing("predict", 1500*time.Millisecond).Build()

	if ee.Context["operation"] != "predict" {
		t.Errorf("Expected operation 'predict', got '%v'", ee.Context["operation"])
	}
	if ee.Context["duration_ms"] != int64(1500) {
		t.Errorf("Expected duration_ms 1500, got '%v'", ee.Context["duration_ms"])
	}
}
