package common

import (
	"errors"
	"fmt"
)

// Failure codes, one per pipeline failure class. Exported error messages and
// the error CSV carry these so a batch report can be traced back to the stage
// that produced each record.
const (
	CodeUnreadableInput   = "UNREADABLE_INPUT"
	CodeExtractionFailed  = "EXTRACTION_FAILED"
	CodeDocumentTooLarge  = "DOCUMENT_TOO_LARGE"
	CodeBackendFailed     = "BACKEND_FAILED"
	CodeMalformedResponse = "MALFORMED_RESPONSE"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeMissingCredential = "MISSING_CREDENTIAL"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// CodeOf returns the failure code carried by err, or "" when err is not an
// AppError anywhere in its chain.
func CodeOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
