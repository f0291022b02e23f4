package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"handicapp/cmd/internal/auth/backend"
)

// TokenSource yields a currently valid bearer token, refreshing when needed.
// *token.Store satisfies it.
type TokenSource interface {
	Valid(ctx context.Context) (tok string, ok bool)
}

// Client is the authenticated caller shared by the resource wrappers.
type Client struct {
	log       *slog.Logger
	be        *backend.Client
	tokens    TokenSource
	intercept *backend.Interceptor
}

// New wires the authenticated caller. interceptor may be nil, in which case a
// rejected token is surfaced without a refresh-retry cycle.
func New(log *slog.Logger, be *backend.Client, tokens TokenSource, intercept *backend.Interceptor) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{log: log, be: be, tokens: tokens, intercept: intercept}
}

// Horses returns the horse resource wrapper.
func (c *Client) Horses() Horses { return Horses{c: c} }

// Establishments returns the establishment resource wrapper.
func (c *Client) Establishments() Establishments { return Establishments{c: c} }

// Events returns the event resource wrapper.
func (c *Client) Events() Events { return Events{c: c} }

// Tasks returns the task resource wrapper.
func (c *Client) Tasks() Tasks { return Tasks{c: c} }

// call re-reads the bearer on every attempt so the retry after a refresh
// picks up the rotated token.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	attempt := func(ctx context.Context) error {
		bearer, ok := c.tokens.Valid(ctx)
		if !ok {
			return fmt.Errorf("%w: no usable token", backend.ErrAuthRequired)
		}
		return c.be.DoJSON(ctx, method, path, bearer, body, out)
	}
	if c.intercept == nil {
		return attempt(ctx)
	}
	return c.intercept.Do(ctx, attempt)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.call(ctx, http.MethodDelete, path, nil, nil)
}
