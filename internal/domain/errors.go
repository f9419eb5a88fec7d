package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// TransportError wraps a network-level failure: the HTTP exchange itself
// could not complete (DNS, connection reset, timeout in flight).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the remote service. Message is the
// server-supplied message when present, otherwise derived from the HTTP
// status lookup table.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// ProtocolError is a 2xx response missing a field the contract requires.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return "protocol: " + e.Message
}

// JobFailedError reports that the remote job reached its terminal failed
// state. Message carries the server's failure message or a fixed fallback.
type JobFailedError struct {
	Message string
}

func (e *JobFailedError) Error() string {
	return "job failed: " + e.Message
}

// PollTimeoutError reports that no terminal state was observed within the
// polling ceiling.
type PollTimeoutError struct {
	Elapsed time.Duration
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("poll timed out after %s", e.Elapsed)
}
