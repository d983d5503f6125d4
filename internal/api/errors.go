package api

import (
	"errors"
	"fmt"
)

// Operation names used in errors, logs and metrics.
const (
	OpInfo     = "info"
	OpDownload = "download"
	OpStatus   = "status"
	OpFile     = "file"
	OpHealth   = "health"
)

// ErrUnhealthy is wrapped by Health when the server answers but does not report healthy.
var ErrUnhealthy = errors.New("server not healthy")

// NetworkError covers transport failures and responses that could not be decoded.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("api: %s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Reason returns the underlying message without the api prefix.
func (e *NetworkError) Reason() string {
	if e.Err == nil {
		return "unknown"
	}
	return e.Err.Error()
}

// RemoteError is an explicit failure reported by the server. Message is empty when
// the server gave no reason; callers substitute their own fallback text.
type RemoteError struct {
	Op      string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("api: %s: remote error", e.Op)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	return msg
}

// MessageOr returns the server message, or fallback when there is none.
func (e *RemoteError) MessageOr(fallback string) string {
	if e.Message == "" {
		return fallback
	}
	return e.Message
}
