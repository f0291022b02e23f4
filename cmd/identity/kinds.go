package identity

import "errors"

// Sentinel error kinds (stable for errors.Is and for mapping to HTTP redirects).
var (
	ErrInvalidInput = errors.New("invalid_input")
	ErrUnknownRole  = errors.New("unknown_role")
)
