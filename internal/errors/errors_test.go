package errors

import (
	"fmt"
	"testing"
)

func TestIsTypeThroughWrapping(t *testing.T) {
	base := InvalidSelection("size", 8, 8)
	wrapped := fmt.Errorf("refresh: %w", base)

	if !IsType(wrapped, TypeInvalidSelection) {
		t.Fatalf("expected INVALID_SELECTION through fmt wrapping, got %v", wrapped)
	}
	if IsType(wrapped, TypePredictionUnavailable) {
		t.Errorf("did not expect PREDICTION_UNAVAILABLE")
	}
	if TypeOf(wrapped) != TypeInvalidSelection {
		t.Errorf("TypeOf = %s", TypeOf(wrapped))
	}
}

func TestIsTypeFindsInnerDomainError(t *testing.T) {
	inner := Network("dial model server", fmt.Errorf("connection refused"))
	outer := PredictionUnavailable("predictor failed", inner)

	if !IsType(outer, TypePredictionUnavailable) {
		t.Errorf("expected outer type")
	}
	if !IsType(outer, TypeNetwork) {
		t.Errorf("expected inner network type to be found")
	}
}

func TestInvalidSelectionContext(t *testing.T) {
	err := InvalidSelection("greenhouses", -1, 5)

	if err.Context["axis"] != "greenhouses" {
		t.Errorf("axis context = %v", err.Context["axis"])
	}
	if err.Context["index"] != -1 {
		t.Errorf("index context = %v", err.Context["index"])
	}
	want := "[INVALID_SELECTION] index -1 out of range for greenhouses (0..4)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestTypeOfPlainError(t *testing.T) {
	if TypeOf(fmt.Errorf("boom")) != TypeInternal {
		t.Errorf("plain errors should map to INTERNAL_ERROR")
	}
}
