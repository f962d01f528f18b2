package errors

import (
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(ErrNotFound) {
		t.Error("IsNotFound(ErrNotFound) = false, want true")
	}
	wrapped := fmt.Errorf("fetching contact: %w", ErrNotFound)
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound(wrapped) = false, want true")
	}
	if IsNotFound(ErrValidation) {
		t.Error("IsNotFound(ErrValidation) = true, want false")
	}
	if IsNotFound(nil) {
		t.Error("IsNotFound(nil) = true, want false")
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrValidation, ErrConflict, ErrAlreadyExists, ErrInvalidState}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && a == b {
				t.Errorf("sentinel %d and %d are the same error", i, j)
			}
		}
	}
}

func TestWrappedChains(t *testing.T) {
	err := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", ErrConflict))
	if !IsConflict(err) {
		t.Error("IsConflict should see through two levels of wrapping")
	}
	if IsAlreadyExists(err) {
		t.Error("IsAlreadyExists should not match a conflict chain")
	}
}
