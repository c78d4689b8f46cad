package errors

import (
	"errors"
	"fmt"
)

// Reason narrows a Code to a specific domain failure. The same code can carry
// several reasons, e.g. both a full roster and a missing selection are
// FAILED_PRECONDITION.
type Reason string

// Domain reasons
const (
	ReasonInvalidMove          Reason = "INVALID_MOVE"
	ReasonDuplicateMove        Reason = "DUPLICATE_MOVE"
	ReasonPersistence          Reason = "PERSISTENCE"
	ReasonRosterFull           Reason = "ROSTER_FULL"
	ReasonNoSelection          Reason = "NO_SELECTION"
	ReasonConfirmationRequired Reason = "CONFIRMATION_REQUIRED"
	ReasonSessionClosed        Reason = "SESSION_CLOSED"
)

// String returns the string representation of the reason
func (r Reason) String() string {
	return string(r)
}

// Error represents a structured error with code, reason, message, and metadata
type Error struct {
	Code    Code                   `json:"code"`
	Reason  Reason                 `json:"reason,omitempty"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	prefix := string(e.Code)
	if e.Reason != "" {
		prefix = fmt.Sprintf("%s(%s)", e.Code, e.Reason)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on code, and on reason when the target carries one
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if !errors.As(target, &targetErr) {
		return false
	}
	if e.Code != targetErr.Code {
		return false
	}
	return targetErr.Reason == "" || e.Reason == targetErr.Reason
}

// WithMeta adds metadata to the error
func (e *Error) WithMeta(key string, value interface{}) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]interface{})
	}
	e.Meta[key] = value
	return e
}

// WithReason sets the domain reason
func (e *Error) WithReason(reason Reason) *Error {
	e.Reason = reason
	return e
}

// New creates a new error with the given code and message
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new error with a formatted message
func Newf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error, preserving its code and reason if it's an Error
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Code:    existingErr.Code,
			Reason:  existingErr.Reason,
			Message: message,
			Cause:   err,
			Meta:    copyMeta(existingErr.Meta),
		}
	}

	return &Error{
		Code:    CodeInternal,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with a formatted message
func Wrapf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific code, dropping any reason the
// cause carried
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	var meta map[string]interface{}
	var existingErr *Error
	if errors.As(err, &existingErr) {
		meta = copyMeta(existingErr.Meta)
	}

	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
		Meta:    meta,
	}
}

func copyMeta(meta map[string]interface{}) map[string]interface{} {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}

// Constructor functions for common error types

// NotFound creates a not found error
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// NotFoundf creates a not found error with formatted message
func NotFoundf(format string, args ...interface{}) *Error {
	return Newf(CodeNotFound, format, args...)
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// InvalidArgumentf creates an invalid argument error with formatted message
func InvalidArgumentf(format string, args ...interface{}) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// AlreadyExists creates an already exists error
func AlreadyExists(message string) *Error {
	return New(CodeAlreadyExists, message)
}

// PermissionDenied creates a permission denied error
func PermissionDenied(message string) *Error {
	return New(CodePermissionDenied, message)
}

// Internal creates an internal error
func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// Internalf creates an internal error with formatted message
func Internalf(format string, args ...interface{}) *Error {
	return Newf(CodeInternal, format, args...)
}

// Unavailable creates an unavailable error
func Unavailable(message string) *Error {
	return New(CodeUnavailable, message)
}

// Unauthenticated creates an unauthenticated error
func Unauthenticated(message string) *Error {
	return New(CodeUnauthenticated, message)
}

// FailedPrecondition creates a failed precondition error
func FailedPrecondition(message string) *Error {
	return New(CodeFailedPrecondition, message)
}

// FailedPreconditionf creates a failed precondition error with formatted message
func FailedPreconditionf(format string, args ...interface{}) *Error {
	return Newf(CodeFailedPrecondition, format, args...)
}

// OutOfRangef creates an out of range error with formatted message
func OutOfRangef(format string, args ...interface{}) *Error {
	return Newf(CodeOutOfRange, format, args...)
}

// Domain constructors

// InvalidMove reports a move with no resolvable name
func InvalidMove(message string) *Error {
	return InvalidArgument(message).WithReason(ReasonInvalidMove)
}

// DuplicateMovef reports a move already held by another slot
func DuplicateMovef(format string, args ...interface{}) *Error {
	return Newf(CodeAlreadyExists, format, args...).WithReason(ReasonDuplicateMove)
}

// Persistence wraps a store failure. The cause's code is kept so callers can
// still tell a missing entry from an unreachable store.
func Persistence(err error, message string) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, message).WithReason(ReasonPersistence)
}

// RosterFullf reports a create against a roster already at capacity
func RosterFullf(format string, args ...interface{}) *Error {
	return FailedPreconditionf(format, args...).WithReason(ReasonRosterFull)
}

// NoSelection reports a slot operation with no entry open
func NoSelection(message string) *Error {
	return FailedPrecondition(message).WithReason(ReasonNoSelection)
}

// ConfirmationRequired reports a destructive call made without confirmation
func ConfirmationRequired(message string) *Error {
	return FailedPrecondition(message).WithReason(ReasonConfirmationRequired)
}

// SessionClosed reports an operation against a session that was torn down
func SessionClosed(message string) *Error {
	return FailedPrecondition(message).WithReason(ReasonSessionClosed)
}
