package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork covers transport failures: connection errors, timeouts,
	// aborted requests. A timed-out call is not a distinct cancellation state.
	ErrNetwork = errors.New("network error")

	// ErrMalformed is returned when the backend answered 2xx but the body
	// could not be interpreted (missing success flag, undecodable JSON).
	ErrMalformed = errors.New("malformed response")

	// ErrAuthRequired signals that the caller must re-authenticate: the token
	// was rejected and a refresh either failed or did not help.
	ErrAuthRequired = errors.New("authentication required")
)

// StatusError is a non-2xx backend response.
//
// Message carries the server-provided human-readable message when present.
// Fields carries field-level validation messages for 4xx responses.
type StatusError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend status %d", e.Status)
	}
	return fmt.Sprintf("backend status %d: %s", e.Status, e.Message)
}

// Retryable reports whether err is worth retrying for an idempotent request:
// transport failures and 5xx. Auth (401) and validation (other 4xx) are never
// retried here.
func Retryable(err error) bool {
	if errors.Is(err, ErrNetwork) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Status >= 500
}

// Refreshable is the interceptor predicate: only an expired/invalid-token
// response warrants a refresh attempt.
func Refreshable(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == 401
}

// IsValidation reports whether err is a 4xx response other than 401, i.e. one
// that should be surfaced to the caller as field errors and never retried.
func IsValidation(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status >= 400 && se.Status < 500 && se.Status != 401
}

// ServerMessage extracts the backend-provided message from err, or "" when
// none was carried.
func ServerMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
