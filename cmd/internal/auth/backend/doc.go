// Package backend is the thin REST client for the HandicApp backend's auth
// surface (/auth/login, /auth/logout, /auth/verify, /auth/refresh).
//
// The backend is opaque: this package owns request shaping, the response
// envelope, the error taxonomy, and retry policy for idempotent GETs. The
// refresh-then-retry-once behavior on 401 is NOT baked into the request path;
// it lives in Interceptor with an explicit predicate/action/fallback contract.
package backend
