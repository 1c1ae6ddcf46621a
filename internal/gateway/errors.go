package gateway

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when a success response cannot be
// understood.
var ErrMalformedResponse = errors.New("malformed response from deck service")

// TransportError means no response reached the client.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: deck service unreachable: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage is the text shown to the user.
func (e *TransportError) UserMessage() string {
	return "Could not reach the deck service. Check your connection and try again."
}

// ServerError is a non-success status from the deck service.
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: deck service error (status %d)", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: deck service error (status %d): %s", e.Op, e.StatusCode, e.Message)
}

// UserMessage is the text shown to the user.
func (e *ServerError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("The deck service failed with status %d.", e.StatusCode)
}

// ValidationError means the service rejected the request as malformed.
type ValidationError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: request rejected (status %d): %s", e.Op, e.StatusCode, e.Message)
}

// UserMessage is the text shown to the user.
func (e *ValidationError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return "The request was rejected as invalid."
}

// UserMessage extracts the user-facing text from err, or returns fallback
// when err carries none.
func UserMessage(err error, fallback string) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}
