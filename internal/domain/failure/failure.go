// Package failure classifies upload failures into stable reason codes.
package failure

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/janhq/media-gateway/internal/domain/objectstore"
)

// Reason is the machine-readable category of an upload failure.
type Reason string

const (
	ReasonValidation       Reason = "VALIDATION_FAILURE"
	ReasonTransientBackend Reason = "TRANSIENT_BACKEND_FAILURE"
	ReasonNonRetryable     Reason = "NON_RETRYABLE_BACKEND_FAILURE"
	ReasonCancelled        Reason = "UPLOAD_CANCELLED"
)

// nginx convention for a client that went away mid-request.
const statusClientClosedRequest = 499

// String returns the string representation of the reason.
func (r Reason) String() string {
	return string(r)
}

// IsRetryable returns true if the caller may retry the whole upload.
func (r Reason) IsRetryable() bool {
	return r == ReasonTransientBackend
}

// Error is the error returned to upload callers.
type Error struct {
	Reason     Reason         `json:"reason"`
	Message    string         `json:"message"`
	Op         string         `json:"operation,omitempty"`
	Key        string         `json:"key,omitempty"`
	Offset     int64          `json:"offset"`
	PartNumber int32          `json:"part_number,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Reason, e.Message)
	if e.Op != "" {
		msg = fmt.Sprintf("%s (op=%s key=%s part=%d offset=%d)", msg, e.Op, e.Key, e.PartNumber, e.Offset)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether retrying the upload may succeed.
func (e *Error) Retryable() bool {
	return e.Reason.IsRetryable()
}

// HTTPStatus maps the reason onto a response status.
func (e *Error) HTTPStatus() int {
	switch e.Reason {
	case ReasonValidation:
		return http.StatusBadRequest
	case ReasonTransientBackend:
		return http.StatusServiceUnavailable
	case ReasonNonRetryable:
		return http.StatusBadGateway
	case ReasonCancelled:
		return statusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// WithCause adds an underlying cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetails adds additional details to the error.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// At records where in the upload the failure happened.
func (e *Error) At(op, key string, partNumber int32, offset int64) *Error {
	e.Op = op
	e.Key = key
	e.PartNumber = partNumber
	e.Offset = offset
	return e
}

// Validation returns a non-retryable input error.
func Validation(format string, args ...any) *Error {
	return &Error{Reason: ReasonValidation, Message: fmt.Sprintf(format, args...)}
}

// FromBackend classifies an error returned by an objectstore.Backend call.
// Context cancellation wins over backend classification.
func FromBackend(ctx context.Context, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}
	switch {
	case ctx != nil && ctx.Err() != nil, errors.Is(err, context.Canceled):
		return &Error{Reason: ReasonCancelled, Message: "upload cancelled", Cause: err}
	case objectstore.IsRejected(err), objectstore.IsNotFound(err):
		return &Error{Reason: ReasonNonRetryable, Message: "storage backend rejected the request", Cause: err}
	default:
		return &Error{Reason: ReasonTransientBackend, Message: "storage backend unavailable", Cause: err}
	}
}

// ReasonOf returns the reason carried by err, or "" when err is not classified.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// Is reports whether err carries the given reason.
func Is(err error, reason Reason) bool {
	return ReasonOf(err) == reason
}
