// Package guard gates role-protected dashboard routes.
//
// Every protected request costs a backend verification round-trip before any
// content is written. Locally cached session state never gates access on its
// own; the server's answer is authoritative.
package guard

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"handicapp/cmd/identity"
	"handicapp/cmd/internal/metrics"
)

// Verifier answers whether a presented token is valid and for whom.
// The backend REST client is the production implementation.
type Verifier interface {
	Verify(ctx context.Context, bearer string) (identity.User, error)
}

// DefaultTokenCookie is the client-readable mirror of the access token set by
// the gateway on login for exactly this middleware's benefit.
const DefaultTokenCookie = "auth-token"

// DefaultLoginPath is where unauthenticated requests are sent.
const DefaultLoginPath = "/login"

// Guard is the route-guard middleware.
type Guard struct {
	log     *slog.Logger
	verify  Verifier
	metrics *metrics.Metrics

	loginPath   string
	tokenCookie string
}

// New builds a Guard. metrics may be nil.
func New(log *slog.Logger, v Verifier, m *metrics.Metrics) *Guard {
	if log == nil {
		log = slog.Default()
	}
	return &Guard{
		log:         log,
		verify:      v,
		metrics:     m,
		loginPath:   DefaultLoginPath,
		tokenCookie: DefaultTokenCookie,
	}
}

type ctxKey struct{}

// UserFrom returns the verified user attached by Protect.
func UserFrom(ctx context.Context) (identity.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(identity.User)
	return u, ok
}

// Protect wraps next so it only ever runs for a server-verified user whose
// role owns the requested path. Everything else is redirected: failed or
// missing verification to the login view, a wrong-area path to the role's own
// dashboard prefix.
func (g *Guard) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer := g.bearerFromRequest(r)
		if bearer == "" {
			g.redirectLogin(w, r, "no_credentials")
			return
		}

		user, err := g.verify.Verify(r.Context(), bearer)
		if err != nil {
			g.log.Info("guard.verify.fail", "path", r.URL.Path, "err", err)
			g.redirectLogin(w, r, "verify_fail")
			return
		}

		role, err := user.Role.Canonical()
		if err != nil {
			g.log.Warn("guard.role.unknown", "path", r.URL.Path, "role_id", user.Role.ID, "role_key", user.Role.Key)
			g.redirectLogin(w, r, "unknown_role")
			return
		}

		if !strings.HasPrefix(r.URL.Path, role.RoutePrefix) {
			g.metrics.Guard(metrics.GuardRedirectRole)
			g.log.Info("guard.redirect.role", "path", r.URL.Path, "role", role.Key)
			http.Redirect(w, r, role.RoutePrefix, http.StatusFound)
			return
		}

		g.metrics.Guard(metrics.GuardAllow)
		user.Role = role
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, user)))
	})
}

func (g *Guard) redirectLogin(w http.ResponseWriter, r *http.Request, reason string) {
	g.metrics.Guard(metrics.GuardRedirectLogin)
	g.log.Info("guard.redirect.login", "path", r.URL.Path, "reason", reason)
	http.Redirect(w, r, g.loginPath, http.StatusFound)
}

func (g *Guard) bearerFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
	}
	if c, err := r.Cookie(g.tokenCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}
