package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	// BackendBaseURL points at the HandicApp REST API this gateway fronts.
	BackendBaseURL string
	BackendTimeout time.Duration
	MaxRetries     int
	RetryInterval  time.Duration

	// TokenBuffer is subtracted from the access token lifetime when deciding
	// whether a token still counts as valid.
	TokenBuffer time.Duration

	// StateFile is where the token/user snapshot is persisted between runs.
	// Empty disables persistence.
	StateFile string

	CookieDomain string
	CookieSecure bool

	// If true, /readyz returns 503 unless the backend answers its health check.
	ReadinessRequireBackend bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("HANDICAPP_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("HANDICAPP_LOG_LEVEL", "info"),
		LogFormat: EnvString("HANDICAPP_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("HANDICAPP_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("HANDICAPP_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("HANDICAPP_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("HANDICAPP_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("HANDICAPP_HTTP_MAX_HEADER_BYTES", 1<<20),

		BackendBaseURL: EnvString("HANDICAPP_BACKEND_URL", "http://localhost:3001/api"),
		BackendTimeout: EnvDuration("HANDICAPP_BACKEND_TIMEOUT", 10*time.Second),
		MaxRetries:     EnvInt("HANDICAPP_BACKEND_MAX_RETRIES", 2),
		RetryInterval:  EnvDuration("HANDICAPP_BACKEND_RETRY_INTERVAL", 200*time.Millisecond),

		TokenBuffer: EnvDuration("HANDICAPP_TOKEN_BUFFER", 60*time.Second),

		StateFile: EnvString("HANDICAPP_STATE_FILE", ""),

		CookieDomain: EnvString("HANDICAPP_COOKIE_DOMAIN", ""),
		CookieSecure: EnvBool("HANDICAPP_COOKIE_SECURE", false),

		ReadinessRequireBackend: EnvBool("HANDICAPP_READINESS_REQUIRE_BACKEND", false),
	}
}
