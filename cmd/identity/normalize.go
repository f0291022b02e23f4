package identity

import "strings"

// NormalizeEmail performs case-insensitive canonicalization before an email
// is sent to the login endpoint. Only trim + lower-case for now; the backend
// applies its own rules and remains authoritative.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
