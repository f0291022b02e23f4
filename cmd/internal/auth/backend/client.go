package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"handicapp/cmd/identity"

	"github.com/cenkalti/backoff/v5"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Client talks to the HandicApp backend auth endpoints.
//
// It always carries a cookie jar so the httpOnly refresh cookie set by the
// backend on login travels back automatically on /auth/refresh. Bearer tokens
// are additionally attached via the Authorization header when available.
type Client struct {
	cfg  Config
	log  *slog.Logger
	http *http.Client
}

// New constructs a Client. The base URL is required.
func New(cfg Config, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = 200 * time.Millisecond
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("backend: cookie jar: %w", err)
	}

	return &Client{
		cfg: cfg,
		log: log,
		// Per-call deadlines come from context; the jar is the refresh-cookie
		// transport.
		http: &http.Client{Jar: jar},
	}, nil
}

// envelope is the backend's uniform response shape.
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// LoginData is the payload of a successful login or verify response.
type LoginData struct {
	User identity.User `json:"user"`

	// The backend has answered with both spellings over time.
	AccessToken string `json:"accessToken"`
	Token       string `json:"token"`

	ExpiresIn int64 `json:"expiresIn"`
}

// BearerToken returns the access token regardless of which field carried it.
func (d LoginData) BearerToken() string {
	if d.AccessToken != "" {
		return d.AccessToken
	}
	return d.Token
}

// RefreshData is the payload of a successful refresh response.
type RefreshData struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with email/password. Never retried: a login is not
// idempotent from the user's point of view (lockout counters).
func (c *Client) Login(ctx context.Context, email, password string) (LoginData, error) {
	body := loginRequest{Email: identity.NormalizeEmail(email), Password: password}

	env, err := c.do(ctx, http.MethodPost, "/auth/login", "", body)
	if err != nil {
		return LoginData{}, err
	}

	var data LoginData
	if err := json.Unmarshal(env.Data, &data); err != nil || data.BearerToken() == "" {
		return LoginData{}, fmt.Errorf("%w: login payload", ErrMalformed)
	}
	if role, rerr := data.User.Role.Canonical(); rerr == nil {
		data.User.Role = role
	}
	return data, nil
}

// Logout tells the backend to drop the refresh session. Best-effort by
// contract: callers log failures and clear local state regardless.
func (c *Client) Logout(ctx context.Context, bearer string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", bearer, nil)
	return err
}

// Verify asks the backend whether the presented token is valid and returns
// the server-side view of the user. Idempotent, so retried per policy.
func (c *Client) Verify(ctx context.Context, bearer string) (identity.User, error) {
	env, err := c.getWithRetry(ctx, "/auth/verify", bearer)
	if err != nil {
		return identity.User{}, err
	}

	var data struct {
		User identity.User `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.User.ID == "" {
		return identity.User{}, fmt.Errorf("%w: verify payload", ErrMalformed)
	}
	if role, rerr := data.User.Role.Canonical(); rerr == nil {
		data.User.Role = role
	}
	return data.User, nil
}

// Refresh mints a new access token from the httpOnly refresh cookie in the
// jar. Not retried; the coordinator decides when to attempt again.
func (c *Client) Refresh(ctx context.Context) (RefreshData, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/refresh", "", nil)
	if err != nil {
		return RefreshData{}, err
	}

	var data RefreshData
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AccessToken == "" || data.ExpiresIn <= 0 {
		return RefreshData{}, fmt.Errorf("%w: refresh payload", ErrMalformed)
	}
	return data, nil
}

// Ping reports backend reachability for readiness checks. Any HTTP response
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()
	return nil
}

// DoJSON performs a request against an arbitrary backend path and decodes the
// envelope payload into out when out is non-nil. GETs ride the retry policy;
// anything else is a single attempt.
func (c *Client) DoJSON(ctx context.Context, method, path, bearer string, body, out any) error {
	var env *envelope
	var err error
	if method == http.MethodGet {
		env, err = c.getWithRetry(ctx, path, bearer)
	} else {
		env, err = c.do(ctx, method, path, bearer, body)
	}
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func (c *Client) getWithRetry(ctx context.Context, path, bearer string) (*envelope, error) {
	op := func() (*envelope, error) {
		env, err := c.do(ctx, http.MethodGet, path, bearer, nil)
		if err != nil && !Retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return env, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.RetryInitialInterval

	env, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.cfg.MaxRetries+1),
	)
	if err != nil {
		return nil, err
	}
	return env, nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body any) (*envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Timeouts and aborts land here; eligible for the same failure path
		// as a connection error.
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	var env envelope
	if len(raw) > 0 {
		// Tolerate undecodable bodies on error statuses; the status decides.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Status:  resp.StatusCode,
			Message: env.Message,
			Fields:  env.Errors,
		}
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: missing success flag", ErrMalformed)
	}
	return &env, nil
}
