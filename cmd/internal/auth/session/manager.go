package session

import (
	"context"
	"log/slog"
	"sync"

	"handicapp/cmd/identity"
	"handicapp/cmd/internal/auth/backend"
	"handicapp/cmd/internal/auth/token"
	"handicapp/cmd/internal/metrics"
)

// Backend is the slice of the REST client the manager drives.
// *backend.Client satisfies it.
type Backend interface {
	Login(ctx context.Context, email, password string) (backend.LoginData, error)
	Logout(ctx context.Context, bearer string) error
	Verify(ctx context.Context, bearer string) (identity.User, error)
}

// State is a snapshot of the session. Snapshots are defensive copies;
// mutating one never affects the manager.
type State struct {
	Authenticated bool           `json:"isAuthenticated"`
	User          *identity.User `json:"user,omitempty"`
	Token         string         `json:"token,omitempty"`
	Loading       bool           `json:"isLoading"`
	Err           string         `json:"error,omitempty"`
}

// genericLoginMsg is the fallback when the backend provided no message.
const genericLoginMsg = "No se pudo iniciar sesión"

// initErrMsg marks an initialization that blew up rather than merely failing
// verification.
const initErrMsg = "initialization error"

type listener struct {
	id int
	fn func(State)
}

// Manager is the single authoritative, observable source of authentication
// state. All mutations go through its methods; observers never write.
type Manager struct {
	log     *slog.Logger
	backend Backend
	tokens  *token.Store
	metrics *metrics.Metrics

	mu        sync.Mutex
	state     State
	listeners []listener
	nextID    int

	initMu sync.Mutex
	init   *initCall
}

type initCall struct {
	done  chan struct{}
	state State
}

// NewManager constructs a Manager. metrics may be nil.
func NewManager(log *slog.Logger, b Backend, tokens *token.Store, m *metrics.Metrics) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{log: log, backend: b, tokens: tokens, metrics: m}
}

// Subscribe registers an observer and synchronously delivers the state
// current at subscription time, so there is no missed-initial-state window.
// Observers are notified in insertion order; a panicking observer is isolated
// and logged without blocking delivery to the rest.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners = append(m.listeners, listener{id: id, fn: fn})
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.deliver(fn, snap)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// GetState returns a defensive copy of the current state.
func (m *Manager) GetState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Login authenticates against the backend. On failure the error is recorded
// in state AND re-raised so the caller can surface field errors. Concurrent
// logins are not deduplicated; last write wins.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.update(func(st *State) {
		st.Loading = true
		st.Err = ""
	})

	data, err := m.backend.Login(ctx, email, password)
	if err != nil {
		msg := backend.ServerMessage(err)
		if msg == "" {
			msg = genericLoginMsg
		}
		m.tokens.Clear()
		m.update(func(st *State) {
			st.Authenticated = false
			st.User = nil
			st.Token = ""
			st.Loading = false
			st.Err = msg
		})
		m.log.Warn("session.login.fail", "err", err)
		m.metrics.Login(false)
		return err
	}

	user := data.User
	tok := data.BearerToken()
	m.tokens.Set(tok, data.ExpiresIn, &user)
	m.update(func(st *State) {
		st.Authenticated = true
		st.User = &user
		st.Token = tok
		st.Loading = false
		st.Err = ""
	})
	m.log.Info("session.login.ok", "user_id", user.ID, "role", user.Role.Key)
	m.metrics.Login(true)
	return nil
}

// Logout tells the backend to drop the session (best-effort, failures are
// logged only) and always clears both persisted records and in-memory state.
func (m *Manager) Logout(ctx context.Context) {
	m.update(func(st *State) {
		st.Loading = true
	})

	bearer := ""
	if rec, ok := m.tokens.Current(); ok {
		bearer = rec.Token
	}
	if err := m.backend.Logout(ctx, bearer); err != nil {
		m.log.Warn("session.logout.backend_fail", "err", err)
	}

	m.tokens.Clear()
	m.update(func(st *State) {
		*st = State{}
	})
	m.log.Info("session.logout.ok")
}

// Initialize restores the session from persisted state, verifying the token
// against the backend before trusting it. Memoized: repeated calls share the
// same in-flight or completed result. It never settles with Loading=true and
// never propagates a failure; the worst case is a clean unauthenticated state.
func (m *Manager) Initialize(ctx context.Context) State {
	m.initMu.Lock()
	if call := m.init; call != nil {
		m.initMu.Unlock()
		select {
		case <-call.done:
			return call.state
		case <-ctx.Done():
			return m.GetState()
		}
	}
	call := &initCall{done: make(chan struct{})}
	m.init = call
	m.initMu.Unlock()

	call.state = m.initialize(ctx)
	close(call.done)
	return call.state
}

func (m *Manager) initialize(ctx context.Context) (settled State) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("session.init.panic", "panic", r)
			m.tokens.Clear()
			m.update(func(st *State) {
				*st = State{Err: initErrMsg}
			})
			settled = m.GetState()
		}
	}()

	m.update(func(st *State) {
		st.Loading = true
		st.Err = ""
	})

	rec, ok := m.tokens.Current()
	if !ok {
		m.update(func(st *State) {
			*st = State{}
		})
		m.log.Debug("session.init.no_persisted_state")
		return m.GetState()
	}

	user, err := m.backend.Verify(ctx, rec.Token)
	if err != nil {
		// Stale or rejected local state; drop it entirely.
		m.tokens.Clear()
		m.update(func(st *State) {
			*st = State{}
		})
		m.log.Info("session.init.verify_fail", "err", err)
		return m.GetState()
	}

	m.tokens.UpdateUser(user)
	m.update(func(st *State) {
		st.Authenticated = true
		st.User = &user
		st.Token = rec.Token
		st.Loading = false
		st.Err = ""
	})
	m.log.Info("session.init.restored", "user_id", user.ID, "role", user.Role.Key)
	return m.GetState()
}

// observeRefresh follows coordinator outcomes: a rotated token replaces the
// state token; a failed refresh demotes an authenticated session.
func (m *Manager) observeRefresh(tok string, err error) {
	if err != nil {
		m.mu.Lock()
		wasAuth := m.state.Authenticated
		m.mu.Unlock()
		if wasAuth {
			m.tokens.Clear()
			m.update(func(st *State) {
				*st = State{}
			})
			m.log.Info("session.demoted.refresh_fail")
		}
		return
	}
	m.update(func(st *State) {
		st.Token = tok
	})
}

// Follow attaches the manager to a refresh coordinator.
func (m *Manager) Follow(c *Coordinator) {
	if c != nil {
		c.OnSettle(m.observeRefresh)
	}
}

// update applies a mutation under the lock and then notifies observers with
// a single snapshot, outside the lock.
func (m *Manager) update(mut func(*State)) {
	m.mu.Lock()
	mut(&m.state)
	snap := m.snapshotLocked()
	ls := append([]listener(nil), m.listeners...)
	m.mu.Unlock()

	for _, l := range ls {
		m.deliver(l.fn, snap)
	}
}

// snapshotLocked re-derives the authenticated flag so the invariant holds:
// authenticated implies user and token present and token not past its
// buffered expiry.
func (m *Manager) snapshotLocked() State {
	st := m.state
	if st.User != nil {
		u := st.User.Clone()
		st.User = &u
	}
	if st.Authenticated && (st.User == nil || st.Token == "" || m.tokens.ExpiringSoon()) {
		st.Authenticated = false
	}
	return st
}

func (m *Manager) deliver(fn func(State), snap State) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("session.listener.panic", "panic", r)
		}
	}()
	fn(snap)
}
