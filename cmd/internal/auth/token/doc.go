// Package token holds the access token and its expiry accounting.
//
// The store keeps the token, its issue time and declared lifetime, computes
// expiry with a safety buffer, and persists both token record and user record
// through a Storage cache. Storage is best-effort: the backend stays the
// source of truth via its httpOnly refresh cookie, so storage failures are
// logged and never surfaced.
package token
