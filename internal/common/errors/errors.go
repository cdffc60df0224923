// Package errors provides the coded error taxonomy shared by the intake workflows.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeAbuseDetected    ErrorCode = "ABUSE_DETECTED"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyCompleted ErrorCode = "ALREADY_COMPLETED"

	// RoleMismatch is kept distinct internally but is surfaced as NOT_FOUND at
	// the HTTP boundary so token structure cannot be probed.
	ErrCodeRoleMismatch ErrorCode = "ROLE_MISMATCH"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeUnauthorized           ErrorCode = "UNAUTHORIZED"
	ErrCodeDatabaseInsertFailed   ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDatabaseQueryFailed    ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeUploadFailed           ErrorCode = "UPLOAD_FAILED"
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode    `json:"code"`
	Message   string       `json:"message"`
	Details   string       `json:"details,omitempty"`
	Retryable bool         `json:"retryable"`
	Fields    []FieldError `json:"fields,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// CodeOf returns the error code of err, or "" if err is not a StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// Is reports whether err is a StandardError with the given code.
func Is(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// NewValidationError creates a non-retryable validation error carrying
// every offending field.
func NewValidationError(fields []FieldError) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Validation failed. Please check your inputs.",
		Retryable: false,
		Fields:    fields,
		Timestamp: time.Now().UTC(),
	}
}

// NewAbuseDetectedError creates the deliberately generic rejection returned
// when the automated-abuse signal fires.
func NewAbuseDetectedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAbuseDetected,
		Message:   "Access denied.",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates a non-retryable not-found error.
func NewNotFoundError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   "Not found",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlreadyCompletedError marks a terminal response link. This is an
// informational state, not a failure of the caller's request.
func NewAlreadyCompletedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadyCompleted,
		Message:   "This form has already been submitted.",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRoleMismatchError creates the internal role-mismatch error.
func NewRoleMismatchError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRoleMismatch,
		Message:   "Not found",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendError creates a retryable notification failure. Callers
// log it and continue; it never rolls back a persisted row.
func NewNotificationSendError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Failed to send notification",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnauthorizedError creates a non-retryable authorization failure.
func NewUnauthorizedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorized,
		Message:   "Access denied",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseError wraps a failed write or read against the relational store.
func NewDatabaseError(code ErrorCode, err error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   "Database operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUploadError wraps a failed blob store write.
func NewUploadError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUploadFailed,
		Message:   "Failed to upload file",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
