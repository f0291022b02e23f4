package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"handicapp/cmd/identity"
	"handicapp/cmd/internal/auth/backend"
	"handicapp/cmd/internal/auth/session"
	"handicapp/cmd/internal/auth/token"
	"handicapp/cmd/internal/guard"
)

const maxLoginBody = 64 << 10

// Mirror cookie names. These are client-readable copies of session facts the
// browser UI needs without a round trip; the access token cookie is also what
// the route guard reads.
const (
	cookieToken     = guard.DefaultTokenCookie
	cookieRole      = "role"
	cookieFirstName = "nombre"
	cookieLastName  = "apellido"
)

// SessionHandler exposes the session lifecycle over HTTP for browser clients.
type SessionHandler struct {
	log      *slog.Logger
	cfg      Config
	sessions *session.Manager
	tokens   *token.Store
}

// NewSessionHandler wires the session endpoints.
func NewSessionHandler(log *slog.Logger, cfg Config, sessions *session.Manager, tokens *token.Store) *SessionHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SessionHandler{log: log, cfg: cfg, sessions: sessions, tokens: tokens}
}

// Register wires session routes onto the provided mux.
func (h *SessionHandler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/session/login", h.handleLogin)
	mux.HandleFunc("/session/logout", h.handleLogout)
	mux.HandleFunc("/session", h.handleState)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req loginRequest) validate() error {
	if strings.TrimSpace(req.Email) == "" {
		return fmt.Errorf("%w: email", identity.ErrInvalidInput)
	}
	if req.Password == "" {
		return fmt.Errorf("%w: password", identity.ErrInvalidInput)
	}
	return nil
}

func (h *SessionHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, maxLoginBody, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := req.validate(); err != nil {
		h.log.Info("session.login.reject", "err", err)
		writeError(w, http.StatusBadRequest, "email and password are required", nil)
		return
	}

	if err := h.sessions.Login(r.Context(), req.Email, req.Password); err != nil {
		h.clearMirrorCookies(w)
		status, fields := loginFailureStatus(err)
		msg := backend.ServerMessage(err)
		if msg == "" {
			msg = "No se pudo iniciar sesión"
		}
		writeError(w, status, msg, fields)
		return
	}

	st := h.sessions.GetState()
	h.setMirrorCookies(w, st)
	writeData(w, http.StatusOK, st)
}

func (h *SessionHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	// Always succeeds locally even when the backend call fails.
	h.sessions.Logout(r.Context())
	h.clearMirrorCookies(w)
	writeData(w, http.StatusOK, h.sessions.GetState())
}

func (h *SessionHandler) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	// Re-mirror on every read so a token rotated by the refresh coordinator
	// reaches the browser's cookie copy.
	st := h.sessions.GetState()
	if st.Authenticated {
		h.setMirrorCookies(w, st)
	}
	writeData(w, http.StatusOK, st)
}

// loginFailureStatus maps a login error onto the gateway's own status code.
func loginFailureStatus(err error) (int, map[string]string) {
	var se *backend.StatusError
	if errors.As(err, &se) {
		return se.Status, se.Fields
	}
	if errors.Is(err, backend.ErrNetwork) {
		return http.StatusBadGateway, nil
	}
	return http.StatusInternalServerError, nil
}

func (h *SessionHandler) setMirrorCookies(w http.ResponseWriter, st session.State) {
	rec, ok := h.tokens.Current()
	if !ok || st.User == nil {
		return
	}
	exp := rec.ExpiresAt()
	h.setCookie(w, cookieToken, rec.Token, exp)
	h.setCookie(w, cookieRole, strconv.Itoa(st.User.Role.ID), exp)
	h.setCookie(w, cookieFirstName, st.User.FirstName, exp)
	h.setCookie(w, cookieLastName, st.User.LastName, exp)
}

func (h *SessionHandler) clearMirrorCookies(w http.ResponseWriter) {
	for _, name := range []string{cookieToken, cookieRole, cookieFirstName, cookieLastName} {
		h.expireCookie(w, name)
	}
}

func (h *SessionHandler) setCookie(w http.ResponseWriter, name, value string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cfg.CookieDomain,
		Expires:  exp,
		HttpOnly: false,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *SessionHandler) expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.cfg.CookieDomain,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: false,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
