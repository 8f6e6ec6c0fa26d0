package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthenticated means there is no usable session: no token, or the
	// backend rejected the one we have.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrMalformedResponse means the backend answered 2xx with a body that is
	// not the JSON we expected.
	ErrMalformedResponse = errors.New("malformed backend response")
	// ErrLoginThrottled is returned before contacting the backend when the
	// caller exceeded the allowed number of failed logins.
	ErrLoginThrottled = errors.New("too many login attempts, try again later")
)

// RequestError is a non-2xx answer from the backend.
type RequestError struct {
	Status  int
	Message string
}

// NewRequestError builds a RequestError, falling back to "<fallback> (<status>)"
// when the backend did not send a message.
func NewRequestError(status int, message, fallback string) *RequestError {
	message = strings.TrimSpace(message)
	if message == "" {
		message = fmt.Sprintf("%s (%d)", fallback, status)
	}
	return &RequestError{Status: status, Message: message}
}

func (e *RequestError) Error() string { return e.Message }

// Is lets a 401 from any endpoint match ErrUnauthenticated.
func (e *RequestError) Is(target error) bool {
	return target == ErrUnauthenticated && e.Status == http.StatusUnauthorized
}

// ValidationError collects field messages for a form that was rejected
// before it reached the backend.
type ValidationError struct {
	Fields []string
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Fields, "; ")
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
