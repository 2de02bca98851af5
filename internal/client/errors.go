package client

import (
	"fmt"
	"net/http"
)

// ErrUnexpectedStatus is returned when a caption endpoint answers with a non-200 status
type ErrUnexpectedStatus struct {
	StatusCode int
	URL        string
}

// Error implements the error interface
func (e *ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Is allows for error checking with errors.Is()
func (e *ErrUnexpectedStatus) Is(target error) bool {
	_, ok := target.(*ErrUnexpectedStatus)
	return ok
}

// Retryable reports whether the status is worth another attempt: throttling or a server error
func (e *ErrUnexpectedStatus) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// ErrPayloadTooLarge is returned when a caption payload exceeds the configured size cap
type ErrPayloadTooLarge struct {
	Limit int64
}

// Error implements the error interface
func (e *ErrPayloadTooLarge) Error() string {
	return fmt.Sprintf("caption payload exceeds %d bytes", e.Limit)
}

// Is allows for error checking with errors.Is()
func (e *ErrPayloadTooLarge) Is(target error) bool {
	_, ok := target.(*ErrPayloadTooLarge)
	return ok
}
