package kvclient

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrStatus indicates the server answered with a non-2xx status.
	ErrStatus = errors.New("unexpected HTTP status")

	// ErrDecode indicates the response body could not be decoded.
	ErrDecode = errors.New("response decode failed")

	// ErrEmptyBody is wrapped by a DecodeError for a 2xx response other
	// than 204 or 205 that has no body.
	ErrEmptyBody = errors.New("empty response body")
)

// maxErrorBody is how much of a failed response body StatusError keeps.
const maxErrorBody = 512

// StatusError reports a non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	// Status is the status line text, e.g. "404 Not Found"
	Status string
	// Body holds at most the first 512 bytes of the response body
	Body []byte
}

// Error returns a human-readable error message.
func (e *StatusError) Error() string {
	msg := fmt.Sprintf("kvclient: %s %s: %s", e.Method, e.URL, e.Status)
	if len(e.Body) > 0 {
		msg += ": " + string(e.Body)
	}
	return msg
}

// Is reports whether target is ErrStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// DecodeError reports a response body that does not decode into the
// endpoint's result type.
type DecodeError struct {
	Method      string
	URL         string
	ContentType string
	Err         error
}

// Error returns a human-readable error message.
func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("kvclient: %s %s: decode", e.Method, e.URL)
	if e.ContentType != "" {
		msg += " " + e.ContentType
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying decoder error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
