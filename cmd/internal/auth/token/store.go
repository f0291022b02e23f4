package token

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"handicapp/cmd/identity"
)

// Storage keys for the two persisted records.
const (
	keyAccessToken = "handicapp.access-token"
	keyUserData    = "handicapp.user-data"
)

// DefaultBuffer is the safety margin before the declared expiry at which a
// token is treated as expiring.
const DefaultBuffer = 60 * time.Second

// Record is the persisted access-token record.
type Record struct {
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresIn int64     `json:"expiresIn"`
}

// ExpiresAt is the declared expiry instant (without the safety buffer).
func (r Record) ExpiresAt() time.Time {
	return r.IssuedAt.Add(time.Duration(r.ExpiresIn) * time.Second)
}

// Refresher mints a new access token; the session refresh coordinator is the
// production implementation.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// Store holds the current access token and user record, with a Storage cache
// behind it.
type Store struct {
	log     *slog.Logger
	storage Storage
	buffer  time.Duration

	mu        sync.Mutex
	rec       *Record
	user      *identity.User
	refresher Refresher

	now func() time.Time
}

// NewStore builds a Store and restores any persisted records from storage.
// A buffer <= 0 falls back to DefaultBuffer.
func NewStore(storage Storage, buffer time.Duration, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	s := &Store{
		log:     log,
		storage: storage,
		buffer:  buffer,
		now:     time.Now,
	}
	s.restore()
	return s
}

// SetRefresher binds the refresh coordinator. Wired after construction
// because the coordinator needs the store to record refreshed tokens.
func (s *Store) SetRefresher(r Refresher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresher = r
}

// Set records a freshly issued token: current time as issue time, declared
// lifetime in seconds, optional replacement user record (nil keeps the
// current one). Storage failures are logged and swallowed.
func (s *Store) Set(tok string, expiresIn int64, user *identity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{Token: tok, IssuedAt: s.now().UTC(), ExpiresIn: expiresIn}
	s.rec = &rec
	if user != nil {
		u := user.Clone()
		s.user = &u
	}

	s.persistLocked()
}

// UpdateUser replaces the cached user record without touching the token's
// expiry accounting (used when a verify round-trip returns a fresher view).
func (s *Store) UpdateUser(user identity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := user.Clone()
	s.user = &u
	s.persistLocked()
}

// Current returns the in-memory token record without any expiry decision.
func (s *Store) Current() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rec == nil {
		return Record{}, false
	}
	return *s.rec, true
}

// User returns a copy of the cached user record.
func (s *Store) User() (identity.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return identity.User{}, false
	}
	return s.user.Clone(), true
}

// ExpiringSoon reports whether the token has crossed the buffer boundary:
// true iff now >= issuedAt + expiresIn - buffer. An absent token counts as
// expiring.
func (s *Store) ExpiringSoon() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiringLocked()
}

func (s *Store) expiringLocked() bool {
	if s.rec == nil {
		return true
	}
	return !s.now().Add(s.buffer).Before(s.rec.ExpiresAt())
}

// Valid returns the current token when it has not crossed the buffer
// boundary; otherwise it delegates to the refresher and returns its outcome.
// The caller suspends until the refresh settles. ok=false means
// re-authentication is required.
func (s *Store) Valid(ctx context.Context) (tok string, ok bool) {
	s.mu.Lock()
	if !s.expiringLocked() {
		tok = s.rec.Token
		s.mu.Unlock()
		return tok, true
	}
	refresher := s.refresher
	s.mu.Unlock()

	if refresher == nil {
		return "", false
	}
	tok, err := refresher.Refresh(ctx)
	if err != nil {
		return "", false
	}
	return tok, true
}

// Clear removes the in-memory and persisted records. Idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec = nil
	s.user = nil

	if s.storage == nil {
		return
	}
	if err := s.storage.Delete(keyAccessToken); err != nil {
		s.log.Warn("token.storage.delete_fail", "key", keyAccessToken, "err", err)
	}
	if err := s.storage.Delete(keyUserData); err != nil {
		s.log.Warn("token.storage.delete_fail", "key", keyUserData, "err", err)
	}
}

func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}

	if s.rec != nil {
		raw, err := json.Marshal(s.rec)
		if err == nil {
			err = s.storage.Put(keyAccessToken, raw)
		}
		if err != nil {
			s.log.Warn("token.storage.put_fail", "key", keyAccessToken, "err", err)
		}
	}
	if s.user != nil {
		raw, err := json.Marshal(s.user)
		if err == nil {
			err = s.storage.Put(keyUserData, raw)
		}
		if err != nil {
			s.log.Warn("token.storage.put_fail", "key", keyUserData, "err", err)
		}
	}
}

func (s *Store) restore() {
	if s.storage == nil {
		return
	}

	if raw, ok, err := s.storage.Get(keyAccessToken); err == nil && ok {
		var rec Record
		if json.Unmarshal(raw, &rec) == nil && rec.Token != "" {
			s.rec = &rec
		}
	}
	if raw, ok, err := s.storage.Get(keyUserData); err == nil && ok {
		var u identity.User
		if json.Unmarshal(raw, &u) == nil && u.ID != "" {
			if role, err := u.Role.Canonical(); err == nil {
				u.Role = role
			}
			s.user = &u
		}
	}
}
