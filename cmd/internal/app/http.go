package app

import (
	"net/http"

	"handicapp/cmd/identity"
	"handicapp/cmd/internal/auth/backend"
	"handicapp/cmd/internal/guard"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func registerHTTP(
	mux *http.ServeMux,
	log Logger,
	cfg Config,
	be *backend.Client,
	g *guard.Guard,
	sessions *SessionHandler,
	registry *prometheus.Registry,
) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.ReadinessRequireBackend {
			if err := be.Ping(r.Context()); err != nil {
				http.Error(w, "backend not ready", http.StatusServiceUnavailable)
				log.Info("readyz.backend.not_ready", "err", err)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready\n"))
	})

	if registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	sessions.Register(mux)

	mux.HandleFunc(guard.DefaultLoginPath, func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusUnauthorized, "inicie sesión en POST /session/login", nil)
	})

	// One guarded area per role; the guard bounces cross-area requests to the
	// caller's own prefix.
	area := g.Protect(http.HandlerFunc(handleArea))
	for _, role := range identity.Roles() {
		mux.Handle(role.RoutePrefix, area)
		mux.Handle(role.RoutePrefix+"/", area)
	}
}

// handleArea is the landing handler behind the guard. It echoes the verified
// principal so browser shells can bootstrap without a second round trip.
func handleArea(w http.ResponseWriter, r *http.Request) {
	u, ok := guard.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "sesión no verificada", nil)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"area":        u.Role.RoutePrefix,
		"displayName": u.FullName(),
		"user":        u,
	})
}
