package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotLoggedIn is returned when an operation needs a session and none exists.
var ErrNotLoggedIn = errors.New("not logged in")

// ValidationError is a client-side rejection. It never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation builds a ValidationError for field.
func Validation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// AuthError carries the backend's rejection of an auth request.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// TransportError covers network failures, timeouts, non-2xx responses
// and bodies that are not JSON.
type TransportError struct {
	Op         string
	StatusCode int
	Body       string // response body of a non-2xx reply, if any
	Timeout    bool
	Err        error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	switch {
	case e.Timeout:
		b.WriteString(": request timed out")
	case e.StatusCode >= 300:
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
		if e.Err != nil {
			b.WriteString(": ")
			b.WriteString(e.Err.Error())
		}
	case e.Err != nil:
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the same request may succeed.
func (e *TransportError) Retryable() bool {
	return e.Timeout || e.StatusCode == 0 || e.StatusCode >= 500 || e.StatusCode == 429
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsAuth reports whether err is an *AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsTransport reports whether err is a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
