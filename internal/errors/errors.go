// Package errors provides error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInvalidSelection indicates a selector index outside its catalog
	TypeInvalidSelection Type = "INVALID_SELECTION"

	// TypePredictionUnavailable indicates the predictor failed or returned an unusable value
	TypePredictionUnavailable Type = "PREDICTION_UNAVAILABLE"

	// TypeStaleResult indicates a prediction was superseded by a newer selection
	TypeStaleResult Type = "STALE_RESULT"

	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeModel indicates a malformed model artifact
	TypeModel Type = "MODEL_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeNetwork indicates a network error
	TypeNetwork Type = "NETWORK_ERROR"

	// TypeNotFound indicates a resource not found error
	TypeNotFound Type = "NOT_FOUND"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// As returns the outermost *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType checks if an error, or any error it wraps, is of a specific type
func IsType(err error, t Type) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Type == t {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// TypeOf returns the type of the outermost *Error, or TypeInternal.
func TypeOf(err error) Type {
	if e, ok := As(err); ok {
		return e.Type
	}
	return TypeInternal
}

// InvalidSelection creates an out-of-bounds selection error
func InvalidSelection(axis string, index, count int) *Error {
	return Newf(TypeInvalidSelection, "index %d out of range for %s (0..%d)", index, axis, count-1).
		WithContext("axis", axis).
		WithContext("index", index)
}

// PredictionUnavailable creates a predictor failure error
func PredictionUnavailable(message string, cause error) *Error {
	return Wrap(TypePredictionUnavailable, message, cause)
}

// Stale creates a superseded-result error
func Stale(generation, latest uint64) *Error {
	return Newf(TypeStaleResult, "prediction %d superseded by %d", generation, latest)
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Model creates a model artifact error
func Model(message string, cause error) *Error {
	return Wrap(TypeModel, message, cause)
}

// Config creates a configuration error
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}

// Network creates a network error
func Network(message string, cause error) *Error {
	return Wrap(TypeNetwork, message, cause)
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
