package metrics

import (
	"errors"
	"fmt"
)

// Sentinel errors for registration failures. Match with errors.Is.
var (
	// ErrTypeMismatch is returned when a family name is re-registered with a
	// different metric type.
	ErrTypeMismatch = errors.New("family already registered with a different type")

	// ErrInvalidLabelName is returned when a label name does not match the
	// exposition grammar [a-zA-Z_][a-zA-Z0-9_]*.
	ErrInvalidLabelName = errors.New("invalid label name")

	// ErrDuplicateLabelName is returned when the same label name is declared
	// more than once for a family.
	ErrDuplicateLabelName = errors.New("duplicate label name")

	// ErrReservedLabelName is returned when a declared label name collides
	// with one the exposition format generates itself, such as le on
	// histograms.
	ErrReservedLabelName = errors.New("reserved label name")

	// ErrLabelCount is returned when the number of label values passed to
	// WithLabelValues does not match the family's declared label names.
	ErrLabelCount = errors.New("wrong number of label values")

	// ErrInvalidBuckets is returned when histogram bucket boundaries are not
	// in strictly ascending order.
	ErrInvalidBuckets = errors.New("histogram buckets not in ascending order")
)

// Sentinel errors for rejected values. Match with errors.Is.
var (
	// ErrNegativeDelta is returned by Counter.Add for a negative delta.
	ErrNegativeDelta = errors.New("negative counter delta")

	// ErrNaNValue is returned when a mutation is given NaN.
	ErrNaNValue = errors.New("value is NaN")

	// ErrInfiniteValue is returned when a mutation is given an infinite value
	// where one is not permitted.
	ErrInfiniteValue = errors.New("value is infinite")
)

// RegistrationError describes a failure to register a family or a series.
// It wraps one of the registration sentinel errors.
type RegistrationError struct {
	// Name is the (sanitized) metric family name.
	Name string

	// Err is the underlying sentinel error.
	Err error
}

// Error returns the formatted error message.
func (e *RegistrationError) Error() string {
	return fmt.Sprintf("metrics: registering %q: %s", e.Name, e.Err)
}

// Unwrap returns the wrapped sentinel error.
func (e *RegistrationError) Unwrap() error { return e.Err }

// ValueError describes a numeric value rejected by an instrument mutation.
// It wraps one of the value sentinel errors.
type ValueError struct {
	// Name is the metric family name the instrument belongs to.
	Name string

	// Value is the rejected value.
	Value float64

	// Err is the underlying sentinel error.
	Err error
}

// Error returns the formatted error message.
func (e *ValueError) Error() string {
	return fmt.Sprintf("metrics: %s: rejected value %v: %s", e.Name, e.Value, e.Err)
}

// Unwrap returns the wrapped sentinel error.
func (e *ValueError) Unwrap() error { return e.Err }
