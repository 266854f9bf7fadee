package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError reports a network failure or a non-success HTTP status from the chat API.
type TransportError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *TransportError) Error() string {
	prefix := "chat API call failed"
	if e.StatusCode != 0 {
		prefix = fmt.Sprintf("chat API call failed with status %d", e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether another attempt could succeed: network failures, timeouts,
// throttling and server errors.
func (e *TransportError) Retryable() bool {
	switch {
	case e.StatusCode == 0:
		return e.Cause != nil
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	default:
		return e.StatusCode >= 500
	}
}

// MalformedResponseError reports model output that is not the expected JSON shape.
type MalformedResponseError struct {
	Message string
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed response: %s", e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether err is a transport failure worth another attempt.
func IsRetryable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable()
	}
	return false
}

// Reason returns a short machine-friendly label for logs and metrics.
func Reason(err error) string {
	var te *TransportError
	var me *MalformedResponseError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &te):
		return "transport"
	case errors.As(err, &me):
		return "malformed"
	default:
		return "error"
	}
}
