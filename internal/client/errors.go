package client

import (
	"errors"
	"fmt"
)

// Error types for the marketplace client, matched with errors.As
type ErrorType int

const (
	ErrorTypeAuthRequired ErrorType = iota
	ErrorTypeRequestFailed
	ErrorTypeInvalidResponse
	ErrorTypeAPIRejected
	ErrorTypeEmptyInput
	ErrorTypeBatchTooLarge
	ErrorTypeNoJobsSelected
	ErrorTypeNoLeftListURL
	ErrorTypeIO
)

// ClientError represents a client-specific error with type information. The
// message is always suitable for direct display.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

func newError(errorType ErrorType, message string) *ClientError {
	return &ClientError{Type: errorType, Message: message}
}

func wrapError(errorType ErrorType, message string, cause error) *ClientError {
	return &ClientError{Type: errorType, Message: message, Cause: cause}
}

// TypeOf extracts the ErrorType from err. The second result is false when err
// did not originate from this client.
func TypeOf(err error) (ErrorType, bool) {
	var clientError *ClientError
	if errors.As(err, &clientError) {
		return clientError.Type, true
	}
	return 0, false
}
