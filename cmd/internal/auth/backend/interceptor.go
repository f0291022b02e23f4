package backend

import (
	"context"
	"fmt"
	"log/slog"
)

// Refresher mints a new access token. The session refresh coordinator is the
// production implementation; it guarantees single-flight.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// Interceptor is the explicit refresh-then-retry contract that used to be
// buried inside generic request helpers:
//
//   - predicate: Refreshable(err) — only a 401 warrants a refresh
//   - action: refresh once, then retry the original call once
//   - fallback: ErrAuthRequired upward; never a hard redirect from here
type Interceptor struct {
	log       *slog.Logger
	refresher Refresher
}

// NewInterceptor builds an Interceptor around a Refresher.
func NewInterceptor(log *slog.Logger, refresher Refresher) *Interceptor {
	if log == nil {
		log = slog.Default()
	}
	return &Interceptor{log: log, refresher: refresher}
}

// Do runs call, and on a refreshable failure performs exactly one
// refresh-then-retry cycle. The call closure must re-read its bearer token on
// each invocation so the retry picks up the refreshed token.
func (i *Interceptor) Do(ctx context.Context, call func(ctx context.Context) error) error {
	err := call(ctx)
	if err == nil || !Refreshable(err) {
		return err
	}

	if i == nil || i.refresher == nil {
		return fmt.Errorf("%w: %v", ErrAuthRequired, err)
	}

	if _, rerr := i.refresher.Refresh(ctx); rerr != nil {
		i.log.Warn("auth.interceptor.refresh_fail", "err", rerr)
		return fmt.Errorf("%w: refresh failed", ErrAuthRequired)
	}

	err = call(ctx)
	if err != nil && Refreshable(err) {
		// The refreshed token was rejected too; stop here.
		return fmt.Errorf("%w: rejected after refresh", ErrAuthRequired)
	}
	return err
}
