// Package api holds the typed REST wrappers for the dashboard resources
// (horses, establishments, events, tasks).
//
// The wrappers are deliberately thin: every call fetches a valid bearer from
// the token store (refreshing proactively when the buffer boundary has been
// crossed) and runs under the refresh-then-retry-once interceptor for tokens
// the backend rejects anyway.
package api
