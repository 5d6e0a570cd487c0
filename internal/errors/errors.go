package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput        = errors.New("input is empty or contains only whitespace")
	ErrInvalidData       = errors.New("invalid document format")
	ErrMultipleDocuments = errors.New("multiple documents found at the root, only one is allowed")
	ErrDuplicateKey      = errors.New("duplicate key in mapping")
	ErrFileNotFound      = errors.New("file not found")
	ErrFileEmpty         = errors.New("file is empty")
	ErrNoInput           = errors.New("no input provided: please specify a file with -i or pipe data to stdin")
	ErrInvalidFilePath   = errors.New("invalid file path")
	ErrNoMatches         = errors.New("no files matched the pattern")

	ErrNoKinds        = errors.New("at least one value kind must be enabled")
	ErrInvalidBound   = errors.New("value out of range")
	ErrUnknownKind    = errors.New("unknown value kind")
	ErrUnknownFormat  = errors.New("unknown format")
	ErrUnsupportedKey = errors.New("mapping keys must be scalars")

	ErrInvalidSchema   = errors.New("invalid JSON Schema")
	ErrSchemaViolation = errors.New("document does not match the schema")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput    ErrorType = "input"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeParsing  ErrorType = "parsing"
	ErrorTypeGenerate ErrorType = "generate"
	ErrorTypeAnalysis ErrorType = "analysis"
	ErrorTypeFormat   ErrorType = "format"
	ErrorTypeOutput   ErrorType = "output"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration or generator options
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to document parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewGenerateError creates a new error related to tree generation
func NewGenerateError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeGenerate,
		Message: message,
		Err:     err,
	}
}

// NewAnalysisError creates a new error related to tree inspection
func NewAnalysisError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeAnalysis,
		Message: message,
		Err:     err,
	}
}

// NewFormatError creates a new error related to serialization
func NewFormatError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeFormat,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeConfig:
			// Validation details live in the wrapped error.
			if appErr.Err != nil {
				return fmt.Sprintf("Configuration error: %s: %v", appErr.Message, appErr.Err)
			}
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("Parsing error: %s", appErr.Message)
		case ErrorTypeGenerate:
			return fmt.Sprintf("Generation error: %s", appErr.Message)
		case ErrorTypeAnalysis:
			if appErr.Err != nil {
				return fmt.Sprintf("Inspection error: %s: %v", appErr.Message, appErr.Err)
			}
			return fmt.Sprintf("Inspection error: %s", appErr.Message)
		case ErrorTypeFormat:
			return fmt.Sprintf("Serialization error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide a YAML or JSON document."
	}
	if errors.Is(err, ErrInvalidData) {
		return "Error: The input could not be parsed. Please check the document syntax."
	}
	if errors.Is(err, ErrMultipleDocuments) {
		return "Error: Multiple documents found. Please provide a single document."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe data to stdin."
	}
	if errors.Is(err, ErrNoKinds) {
		return "Error: Please select at least one data type to include."
	}
	if errors.Is(err, ErrNoMatches) {
		return "Error: No files matched the given pattern."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
