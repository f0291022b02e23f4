package backend

import "time"

// Config controls the REST client's transport policy.
type Config struct {
	// BaseURL is the backend origin, e.g. "https://api.handicapp.com.ar".
	BaseURL string

	// Timeout bounds every single HTTP call. An expired timeout aborts the
	// underlying request and surfaces as ErrNetwork.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts for idempotent GETs
	// after a retryable failure. Login/logout/refresh are never retried.
	MaxRetries uint

	// RetryInitialInterval seeds the exponential backoff schedule.
	RetryInitialInterval time.Duration

	UserAgent string
}

// DefaultConfig returns the transport defaults: 10s per call, two retries
// with exponential backoff starting at 200ms.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:              baseURL,
		Timeout:              10 * time.Second,
		MaxRetries:           2,
		RetryInitialInterval: 200 * time.Millisecond,
		UserAgent:            "handicapp-gateway",
	}
}
