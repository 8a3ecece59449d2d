package errors

import "fmt"

// ErrorType represents different types of errors that can occur during a run
type ErrorType string

const (
	ErrorTypeAutomation ErrorType = "automation"
	ErrorTypeExtraction ErrorType = "extraction"
	ErrorTypeNavigation ErrorType = "navigation"
	ErrorTypeFilesystem ErrorType = "filesystem"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Error represents a scrape error with type information
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given type
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Wrap creates an Error of the given type wrapping an underlying cause
func Wrap(errorType ErrorType, message string, err error) *Error {
	return &Error{Type: errorType, Message: message, Err: err}
}

// Automation creates an automation collaborator error
func Automation(message string) *Error {
	return New(ErrorTypeAutomation, message)
}

// Extraction creates an extraction-parse error
func Extraction(message string) *Error {
	return New(ErrorTypeExtraction, message)
}

// Filesystem wraps a filesystem failure
func Filesystem(message string, err error) *Error {
	return Wrap(ErrorTypeFilesystem, message, err)
}
