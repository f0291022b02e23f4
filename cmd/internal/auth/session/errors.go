package session

import "errors"

var (
	// ErrRefreshFailed is returned when a refresh attempt settled without a
	// token. Callers interpret it as "re-authentication required".
	ErrRefreshFailed = errors.New("refresh failed")
)
