package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents fetch failures: transport errors, timeouts, non-2xx
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents a partner answering 429 or being blocked locally
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeValidation represents invalid import requests
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeStore represents catalog store failures that abort a run
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ImportError represents an importer-level failure
type ImportError struct {
	Type    ErrorType
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *ImportError) Unwrap() error {
	return e.Err
}

// New creates a new ImportError
func New(errType ErrorType, source, message string, err error) *ImportError {
	return &ImportError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(source, message string, err error) *ImportError {
	return New(ErrorTypeNetwork, source, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(source, message string, err error) *ImportError {
	return New(ErrorTypeParsing, source, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(source string, duration time.Duration) *ImportError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, source, message, nil)
}

// NewValidation creates a new validation error
func NewValidation(source, message string) *ImportError {
	return New(ErrorTypeValidation, source, message, nil)
}

// NewStore creates a new store error
func NewStore(source, message string, err error) *ImportError {
	return New(ErrorTypeStore, source, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ImportError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// TypeOf returns the ErrorType of the first ImportError in err's chain, or
// an empty string when there is none.
func TypeOf(err error) ErrorType {
	var ie *ImportError
	if stderrors.As(err, &ie) {
		return ie.Type
	}
	return ""
}
