package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// Misuse indicates an invalid invocation (bad index, bad format, bad path),
	// detected before any filesystem or process side effect
	Misuse ErrorCode = "MISUSE"
	// IOFailure indicates an unreadable input or unwritable output path
	IOFailure ErrorCode = "IO_FAILURE"
	// NoCandidate indicates strict mode filtered out every candidate command
	NoCandidate ErrorCode = "NO_CANDIDATE"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// ReproError represents an AutoRepro error with code, message, and an
// optional hint for the user
type ReproError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Hint    string      `json:"hint,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// NewReproError creates a new ReproError
func NewReproError(code ErrorCode, message string, cause error) *ReproError {
	return &ReproError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *ReproError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ReproError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *ReproError) WithDetails(details interface{}) *ReproError {
	e.Details = details
	return e
}

// WithHint adds a user-facing hint to the error
func (e *ReproError) WithHint(hint string) *ReproError {
	e.Hint = hint
	return e
}

// NewMisuse creates a Misuse error with a formatted message
func NewMisuse(format string, args ...interface{}) *ReproError {
	return NewReproError(Misuse, fmt.Sprintf(format, args...), nil)
}

// NewIOFailure creates an IOFailure error carrying the offending path
func NewIOFailure(path string, cause error) *ReproError {
	e := NewReproError(IOFailure, fmt.Sprintf("cannot access %s", path), cause)
	e.Details = map[string]string{"path": path}
	return e
}

// NoCandidateError signals that strict mode filtered out every candidate.
// It carries the active minimum score so the failure message can reference it.
type NoCandidateError struct {
	MinScore int
}

// Error implements the error interface
func (e *NoCandidateError) Error() string {
	return fmt.Sprintf("[%s] no candidate commands scored at or above min_score=%d", NoCandidate, e.MinScore)
}

// IsMisuse reports whether err is a Misuse-coded ReproError
func IsMisuse(err error) bool {
	var re *ReproError
	if errors.As(err, &re) {
		return re.Code == Misuse
	}
	return false
}

// IsNoCandidate reports whether err is a strict-mode no-candidate failure
func IsNoCandidate(err error) bool {
	var nc *NoCandidateError
	return errors.As(err, &nc)
}
