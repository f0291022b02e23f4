package guard

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"handicapp/cmd/identity"
	"handicapp/cmd/internal/auth/backend"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeVerifier struct {
	calls int
	user  identity.User
	err   error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (identity.User, error) {
	f.calls++
	return f.user, f.err
}

func protectedOK(t *testing.T, served *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*served = true
		u, ok := UserFrom(r.Context())
		if !ok {
			t.Errorf("verified user missing from context")
		}
		if u.Role.RoutePrefix == "" {
			t.Errorf("context user role not canonical: %+v", u.Role)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestWrongRoleAreaRedirectsToOwnPrefix(t *testing.T) {
	t.Parallel()

	v := &fakeVerifier{user: identity.User{ID: "u1", Role: identity.Role{Key: "veterinario"}}}
	g := New(discardLogger(), v, nil)

	served := false
	h := g.Protect(protectedOK(t, &served))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: DefaultTokenCookie, Value: "tok1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("status=%d want=302", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/veterinario" {
		t.Fatalf("location=%q want=/veterinario", got)
	}
	if served {
		t.Fatalf("protected handler ran for a wrong-area request")
	}
}

func TestMatchingRoleAreaIsServed(t *testing.T) {
	t.Parallel()

	v := &fakeVerifier{user: identity.User{ID: "u1", Role: identity.Role{Key: "veterinario"}}}
	g := New(discardLogger(), v, nil)

	served := false
	h := g.Protect(protectedOK(t, &served))

	req := httptest.NewRequest(http.MethodGet, "/veterinario/caballos", nil)
	req.Header.Set("Authorization", "Bearer tok1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || !served {
		t.Fatalf("status=%d served=%v", rr.Code, served)
	}
	if v.calls != 1 {
		t.Fatalf("verify calls=%d want=1", v.calls)
	}
}

func TestMissingCredentialsRedirectToLogin(t *testing.T) {
	t.Parallel()

	v := &fakeVerifier{user: identity.User{ID: "u1", Role: identity.Role{Key: "admin"}}}
	g := New(discardLogger(), v, nil)

	served := false
	h := g.Protect(protectedOK(t, &served))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != DefaultLoginPath {
		t.Fatalf("status=%d location=%q", rr.Code, rr.Header().Get("Location"))
	}
	if v.calls != 0 {
		t.Fatalf("verify must not be called without credentials")
	}
	if served {
		t.Fatalf("protected handler ran without credentials")
	}
}

func TestFailedVerifyRedirectsToLogin(t *testing.T) {
	t.Parallel()

	v := &fakeVerifier{err: &backend.StatusError{Status: 401, Message: "Token inválido"}}
	g := New(discardLogger(), v, nil)

	served := false
	h := g.Protect(protectedOK(t, &served))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: DefaultTokenCookie, Value: "stale"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != DefaultLoginPath {
		t.Fatalf("status=%d location=%q", rr.Code, rr.Header().Get("Location"))
	}
	if served {
		t.Fatalf("protected handler ran with a rejected token")
	}
}

func TestUnknownRoleRedirectsToLogin(t *testing.T) {
	t.Parallel()

	v := &fakeVerifier{user: identity.User{ID: "u1", Role: identity.Role{ID: 42, Key: "jinete"}}}
	g := New(discardLogger(), v, nil)

	served := false
	h := g.Protect(protectedOK(t, &served))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: DefaultTokenCookie, Value: "tok1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != DefaultLoginPath {
		t.Fatalf("status=%d location=%q", rr.Code, rr.Header().Get("Location"))
	}
	if served {
		t.Fatalf("protected handler ran for an unknown role")
	}
}
