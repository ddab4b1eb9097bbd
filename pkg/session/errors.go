package session

import "errors"

// ErrValidation is returned when credentials are rejected locally, before
// any request is made.
var ErrValidation = errors.New("session: email and password are required")

// Error is a failed login or registration. Message is safe to show to the
// visitor; Err keeps the underlying cause for errors.Is checks.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return "session: " + e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Message returns the visitor-facing text of err.
func Message(err error, fallback string) string {
	var se *Error
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	if errors.Is(err, ErrValidation) {
		return "Email and password are required"
	}
	return fallback
}
