package engine

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := NewMissingParameterError(ProviderAWS, ResourceTypeNetwork, "vpc_id")

	msg := err.Error()
	if want := "[missing_parameter] missing aws network parameter: vpc_id (field=vpc_id) (resource=network)"; msg != want {
		t.Errorf("unexpected message:\n got: %s\nwant: %s", msg, want)
	}
}

func TestErrorKindMatching(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"unsupported provider", NewUnsupportedProviderError("oracle"), ErrUnsupportedProvider},
		{"not found", NewNotFoundError("template", "missing"), ErrNotFound},
		{"missing parameter", NewMissingParameterError(ProviderGCP, ResourceTypeVM, "project"), ErrMissingParameter},
		{"invalid value", NewInvalidValueError("vcpus", "vcpus must be positive, got %d", -1), ErrInvalidValue},
		{"region mismatch", NewRegionMismatchError("us-east-1", "us-west-2", "us-east-1"), ErrRegionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.kind {
				t.Errorf("KindOf() = %q, want %q", got, tt.kind)
			}
			if !IsKind(tt.err, tt.kind) {
				t.Errorf("IsKind(%q) = false, want true", tt.kind)
			}
		})
	}
}

func TestErrorKindThroughWrapping(t *testing.T) {
	inner := NewNotFoundError("size tier", "xlarge")
	wrapped := fmt.Errorf("resolving specification: %w", inner)

	if KindOf(wrapped) != ErrNotFound {
		t.Errorf("KindOf(wrapped) = %q, want %q", KindOf(wrapped), ErrNotFound)
	}

	var e *Error
	if !errors.As(wrapped, &e) {
		t.Fatal("errors.As failed on wrapped engine error")
	}
	if e.Kind != ErrNotFound {
		t.Errorf("unwrapped kind = %q, want %q", e.Kind, ErrNotFound)
	}
}

func TestErrorIsComparesKinds(t *testing.T) {
	a := NewNotFoundError("template", "a")
	b := NewNotFoundError("vm class", "b")

	if !errors.Is(a, b) {
		t.Error("errors with the same kind should match via errors.Is")
	}
	if errors.Is(a, NewUnsupportedProviderError("x")) {
		t.Error("errors with different kinds must not match")
	}
}

func TestKindOfPlainError(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain error) = %q, want empty", got)
	}
}
