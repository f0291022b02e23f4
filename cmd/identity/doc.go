// Package identity defines HandicApp's identity vocabulary: the canonical
// user record returned by the backend and the closed role set that drives
// dashboard routing.
//
// This package is intentionally dependency-light; it carries no transport or
// storage concerns.
package identity
