// Package apperrors defines the coded errors the pipeline reports per document and per request.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a failure class. Codes are stable and appear in transport replies.
type ErrorCode string

const (
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrCodeParse             ErrorCode = "PARSE_ERROR"
	ErrCodeDuplicate         ErrorCode = "DUPLICATE"
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeInternal          ErrorCode = "INTERNAL"
)

// Error is a coded application error.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NewUnsupportedFormatError(filename string) *Error {
	return &Error{
		Code:    ErrCodeUnsupportedFormat,
		Message: "file extension is not accepted",
		Details: fmt.Sprintf("filename: %s", filename),
	}
}

// NewParseError wraps a format-specific parser failure.
func NewParseError(format string, err error) *Error {
	e := &Error{
		Code:    ErrCodeParse,
		Message: fmt.Sprintf("failed to parse %s document", format),
		cause:   err,
	}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

func NewDuplicateError(field string) *Error {
	return &Error{
		Code:    ErrCodeDuplicate,
		Message: "resume already exists for this owner",
		Details: fmt.Sprintf("matched on %s", field),
	}
}

func NewNotFoundError(kind, id string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", kind),
		Details: fmt.Sprintf("id: %s", id),
	}
}

func NewValidationError(field, message string) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: message,
		Details: fmt.Sprintf("field: %s", field),
	}
}

// NewInternalError wraps infrastructure failures (database, storage, broker).
func NewInternalError(message string, err error) *Error {
	e := &Error{Code: ErrCodeInternal, Message: message, cause: err}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
