package engine

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a construction failure. Every error surfaced by the
// core carries a kind so that callers can react programmatically without
// string matching.
type ErrorKind string

const (
	// ErrUnsupportedProvider indicates an unknown provider identifier.
	ErrUnsupportedProvider ErrorKind = "unsupported_provider"

	// ErrNotFound indicates an unknown catalog triple, vm class, size tier
	// or template name.
	ErrNotFound ErrorKind = "not_found"

	// ErrMissingParameter indicates a required field absent for a given
	// provider and resource type.
	ErrMissingParameter ErrorKind = "missing_parameter"

	// ErrInvalidValue indicates a value present but out of domain.
	ErrInvalidValue ErrorKind = "invalid_value"

	// ErrRegionMismatch indicates that network, storage and top-level
	// regions disagree.
	ErrRegionMismatch ErrorKind = "region_mismatch"

	// ErrDuplicateTemplate indicates a registration that would collide with
	// an existing template where replacement is not permitted.
	ErrDuplicateTemplate ErrorKind = "duplicate_template"

	// ErrDuplicateProvider indicates a second factory registration under an
	// already-registered provider id.
	ErrDuplicateProvider ErrorKind = "duplicate_provider"
)

// Error is a structured construction failure: a kind plus human-readable
// detail, optionally anchored to a field and resource type.
type Error struct {
	// Kind is the failure classification.
	Kind ErrorKind `json:"kind"`

	// Message is the human-readable detail.
	Message string `json:"message"`

	// Field names the offending field, if applicable.
	Field string `json:"field,omitempty"`

	// Resource names the resource type being processed, if applicable.
	Resource ResourceType `json:"resource,omitempty"`

	// Err is the underlying error, if any.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field=%s)", e.Field)
	}
	if e.Resource != "" {
		msg += fmt.Sprintf(" (resource=%s)", e.Resource)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for chain inspection.
func (e *Error) Unwrap() error { return e.Err }

// Is matches errors by kind, so errors.Is works against kind sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithField anchors the error to a field name.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithResource anchors the error to a resource type.
func (e *Error) WithResource(rt ResourceType) *Error {
	e.Resource = rt
	return e
}

// NewError creates a structured error of the given kind.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewUnsupportedProviderError reports an unknown provider id.
func NewUnsupportedProviderError(p ProviderID) *Error {
	return NewError(ErrUnsupportedProvider, "provider %q is not supported", p)
}

// NewNotFoundError reports an unknown named entity (vm class, size tier,
// catalog triple, template).
func NewNotFoundError(what, name string) *Error {
	return NewError(ErrNotFound, "%s %q not found", what, name)
}

// NewMissingParameterError reports a required field absent for the given
// provider and resource type.
func NewMissingParameterError(p ProviderID, rt ResourceType, field string) *Error {
	e := NewError(ErrMissingParameter, "missing %s %s parameter: %s", p, rt, field)
	e.Field = field
	e.Resource = rt
	return e
}

// NewInvalidValueError reports a present but out-of-domain value.
func NewInvalidValueError(field, format string, args ...any) *Error {
	e := NewError(ErrInvalidValue, format, args...)
	e.Field = field
	return e
}

// NewRegionMismatchError reports disagreeing regions across the family.
func NewRegionMismatchError(top, network, storage string) *Error {
	return NewError(ErrRegionMismatch,
		"regions disagree: specification=%q network=%q storage=%q", top, network, storage)
}

// KindOf returns the kind of err, or the empty kind when err is not a
// structured engine error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
