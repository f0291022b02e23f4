package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"handicapp/cmd/internal/auth/backend"
	"handicapp/cmd/internal/auth/token"
	"handicapp/cmd/internal/metrics"
)

// RefreshBackend is the slice of the REST client the coordinator needs.
// *backend.Client satisfies it.
type RefreshBackend interface {
	Refresh(ctx context.Context) (backend.RefreshData, error)
}

// Coordinator guarantees at most one outstanding refresh HTTP call.
// Concurrent callers attach to the in-flight attempt and resolve with the
// identical outcome. After settling, the in-flight marker is cleared so the
// next caller starts a fresh attempt.
type Coordinator struct {
	log     *slog.Logger
	backend RefreshBackend
	tokens  *token.Store
	metrics *metrics.Metrics

	mu       sync.Mutex
	inflight *refreshCall
	onSettle func(tok string, err error)
}

type refreshCall struct {
	done chan struct{}
	tok  string
	err  error
}

// NewCoordinator builds a Coordinator. metrics may be nil.
func NewCoordinator(log *slog.Logger, b RefreshBackend, tokens *token.Store, m *metrics.Metrics) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{log: log, backend: b, tokens: tokens, metrics: m}
}

// OnSettle registers a single observer invoked after every settled refresh
// attempt (the session manager uses this to follow token rotation).
func (c *Coordinator) OnSettle(fn func(tok string, err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSettle = fn
}

// Refresh returns a fresh access token, joining an in-flight attempt when one
// exists. Failure never escapes as a panic; an error means the caller must
// re-authenticate. On success the new token is recorded in the token store
// before any caller observes it.
func (c *Coordinator) Refresh(ctx context.Context) (string, error) {
	c.mu.Lock()
	if call := c.inflight; call != nil {
		c.mu.Unlock()
		c.metrics.Refresh(metrics.RefreshJoined)
		select {
		case <-call.done:
			return call.tok, call.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	call := &refreshCall{done: make(chan struct{})}
	c.inflight = call
	c.mu.Unlock()

	data, err := c.backend.Refresh(ctx)
	if err != nil {
		call.err = fmt.Errorf("%w: %v", ErrRefreshFailed, err)
		c.log.Warn("session.refresh.fail", "err", err)
		c.metrics.Refresh(metrics.RefreshFailed)
	} else {
		// Store first: every joined caller must see the rotated token.
		c.tokens.Set(data.AccessToken, data.ExpiresIn, nil)
		call.tok = data.AccessToken
		c.log.Debug("session.refresh.ok", "expires_in", data.ExpiresIn)
		c.metrics.Refresh(metrics.RefreshIssued)
	}

	c.mu.Lock()
	c.inflight = nil
	settle := c.onSettle
	c.mu.Unlock()

	close(call.done)
	if settle != nil {
		settle(call.tok, call.err)
	}
	return call.tok, call.err
}
