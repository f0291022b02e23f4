package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"handicapp/cmd/internal/auth/backend"
	"handicapp/cmd/internal/auth/session"
	"handicapp/cmd/internal/auth/token"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newAuthedClient wires the full client-side stack (token store, refresh
// coordinator, interceptor) against a mock backend.
func newAuthedClient(t *testing.T, baseURL string) (*Client, *token.Store) {
	t.Helper()

	cfg := backend.DefaultConfig(baseURL)
	cfg.MaxRetries = 0
	be, err := backend.New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}

	tokens := token.NewStore(nil, token.DefaultBuffer, discardLogger())
	coord := session.NewCoordinator(discardLogger(), be, tokens, nil)
	tokens.SetRefresher(coord)

	return New(discardLogger(), be, tokens, backend.NewInterceptor(discardLogger(), coord)), tokens
}

func TestRejectedTokenIsRefreshedAndRetriedOnce(t *testing.T) {
	t.Parallel()

	var refreshes, listCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshes.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"data":{"accessToken":"tok2","expiresIn":3600}}`))
		case "/horses":
			listCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer tok2" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"success":false,"message":"Token inválido"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"h1","name":"Relámpago","sex":"m","ownerId":"u1"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, tokens := newAuthedClient(t, srv.URL)
	// A token the backend will reject, but locally still inside its lifetime.
	tokens.Set("tok1", 3600, nil)

	horses, err := c.Horses().List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(horses) != 1 || horses[0].Name != "Relámpago" {
		t.Fatalf("horses=%+v", horses)
	}
	if got := refreshes.Load(); got != 1 {
		t.Fatalf("refreshes=%d want=1", got)
	}
	if got := listCalls.Load(); got != 2 {
		t.Fatalf("list calls=%d want=2 (401 then retry)", got)
	}
}

func TestExpiredTokenTriggersProactiveRefresh(t *testing.T) {
	t.Parallel()

	var refreshes atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshes.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"data":{"accessToken":"tok2","expiresIn":3600}}`))
		case "/tasks":
			if r.Header.Get("Authorization") != "Bearer tok2" {
				t.Errorf("authorization=%q want refreshed token", r.Header.Get("Authorization"))
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, tokens := newAuthedClient(t, srv.URL)
	// 30s lifetime sits inside the 60s buffer: expiring immediately.
	tokens.Set("tok1", 30, nil)

	if _, err := c.Tasks().List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := refreshes.Load(); got != 1 {
		t.Fatalf("refreshes=%d want=1", got)
	}
}

func TestAuthRequiredWhenRefreshFails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"Refresh token expirado"}`))
			return
		}
		t.Errorf("unexpected request %s", r.URL.Path)
	}))
	defer srv.Close()

	c, tokens := newAuthedClient(t, srv.URL)
	tokens.Set("tok1", 30, nil) // expiring, and the refresh will fail

	_, err := c.Horses().List(context.Background())
	if !errors.Is(err, backend.ErrAuthRequired) {
		t.Fatalf("err=%v want ErrAuthRequired", err)
	}
}

func TestCreateSendsPayloadAndDecodesResult(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/horses" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"h9","name":"Tornado","sex":"m","ownerId":"u1"}}`))
	}))
	defer srv.Close()

	c, tokens := newAuthedClient(t, srv.URL)
	tokens.Set("tok1", 3600, nil)

	created, err := c.Horses().Create(context.Background(), HorseInput{Name: "Tornado", Sex: "m"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "h9" || created.Name != "Tornado" {
		t.Fatalf("created=%+v", created)
	}
}
