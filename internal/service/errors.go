// Package service implements the booking core: admission validation,
// conflict prevention and the booking state machine. It owns the
// domain error taxonomy; storage implementations map driver errors
// into these sentinels so that handlers can translate them into HTTP
// status codes with errors.Is.
package service

import "errors"

// ErrValidation is returned when the input of an operation is
// malformed: an invalid or inverted date range, a check-in in the
// past or a non-positive guest count. Validation failures are
// deterministic for a given input. Wrap with fmt.Errorf("%w: reason")
// to attach the specific cause.
var ErrValidation = errors.New("validation failed")

// ErrNotFound is returned when no record matches the requested
// identifier. Handlers should translate this into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller is authenticated but not
// entitled: the booking belongs to a different user. Handlers should
// translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an admission would overlap an
// existing PENDING or CONFIRMED booking for the same room. Handlers
// should translate this into HTTP 409.
var ErrConflict = errors.New("booking conflict")

// ErrInvalidState is returned when a transition is requested out of
// a terminal state, e.g. cancelling an already CANCELLED or
// COMPLETED booking. Re-cancellation is rejected rather than treated
// as an idempotent no-op so that misuse surfaces to the caller.
var ErrInvalidState = errors.New("invalid booking state")

// ErrTransient is returned for storage failures that are safe to
// retry with the same inputs, such as lock wait timeouts and
// deadlocks. It is distinct from ErrConflict: the admission was
// neither accepted nor rejected.
var ErrTransient = errors.New("transient storage failure")
