package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors returned by Client methods.
var (
	// ErrNetwork is returned when the API could not be reached at all.
	ErrNetwork = errors.New("apiclient: network error")

	// ErrUnauthorized is returned when the API rejected the bearer token.
	// The token has already been purged from the TokenStore when this is returned.
	ErrUnauthorized = errors.New("apiclient: unauthorized")

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("apiclient: not found")

	// ErrInvalidResponse is returned when the response body does not match the expected schema.
	ErrInvalidResponse = errors.New("apiclient: invalid response")

	// ErrInvalidBaseURL is returned by New when the base URL cannot be parsed.
	ErrInvalidBaseURL = errors.New("apiclient: invalid base URL")
)

// Error is a request the API rejected with a status code >= 400.
// Message carries the server-provided text, if any.
type Error struct {
	Message string
	Status  int
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("apiclient: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("apiclient: %d %s", e.Status, e.Message)
}

// Is maps status codes onto the package sentinels, so callers can match
// errors.Is(err, ErrUnauthorized) without caring about the server message.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// newError builds an Error from a failed response body.
// Both {"message": "..."} and {"error": "..."} payloads are understood.
func newError(status int, body []byte) *Error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	e := &Error{Status: status}
	if err := json.Unmarshal(body, &payload); err == nil {
		e.Message = strings.TrimSpace(payload.Message)
		if e.Message == "" {
			e.Message = strings.TrimSpace(payload.Error)
		}
	}
	return e
}

// Message returns the server-provided message carried by err,
// or fallback when err has none.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
