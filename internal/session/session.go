package session

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
)

// ExpiredFunc is invoked when the session is terminated by a 401 response.
// The presentation layer subscribes to this to route the user back to login.
type ExpiredFunc func()

// Session owns the in-memory authentication state and keeps it in sync with
// durable storage. One instance exists per running client; it is constructed
// at startup and injected into the dispatcher and adapters.
//
// The session state machine has exactly two states, Unauthenticated and
// Authenticated. Login and registration (auto-login) move it forward; logout,
// a 401 response, and profile-reload failure at startup move it back. There
// is no recoverable-expiry intermediate state.
type Session struct {
	mu        sync.RWMutex
	store     Store
	logger    zerolog.Logger
	token     string
	user      domain.UserProfile
	onExpired ExpiredFunc
}

// New creates a Session backed by the given store. The session starts
// unauthenticated; call Initialize to restore persisted state.
func New(store Store, logger zerolog.Logger) *Session {
	return &Session{
		store:  store,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// Initialize restores the session from durable storage. When both a token and
// a well-formed user record are present the session becomes authenticated;
// otherwise it stays empty. Never performs a network call, and a missing or
// corrupted credentials file is not an error; the session just starts cold.
func (s *Session) Initialize() {
	token, _, user, err := s.store.Read()
	if err != nil {
		if !errors.Is(err, taskpiloterrors.ErrNoSession) {
			s.logger.Warn().Err(err).Msg("could not restore persisted session")
		}
		return
	}

	// Both must be present; a token without a user record is not trusted.
	if token == "" || user == nil {
		return
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	s.logger.Debug().Msg("session restored from durable storage")
}

// IsAuthenticated reports whether a token is currently held in memory.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the current bearer token, or empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUser returns the last-known profile without a network call.
// Returns nil when unauthenticated.
func (s *Session) CurrentUser() domain.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Set stores the token and user in memory and durable storage, overwriting
// any prior session. The durable write is atomic, so no observer ever sees a
// token without its user record.
func (s *Session) Set(token string, user domain.UserProfile) error {
	return s.SetWithRefresh(token, "", user)
}

// SetWithRefresh stores the token pair and user together. An empty refresh
// token is valid; the backend does not always issue one.
func (s *Session) SetWithRefresh(token, refreshToken string, user domain.UserProfile) error {
	if err := s.store.Write(token, refreshToken, user); err != nil {
		return taskpiloterrors.Wrap(err, "failed to persist session")
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	s.logger.Debug().Msg("session established")
	return nil
}

// SetTokens stores a token pair with the user record. Convenience wrapper
// for callers holding the backend's token-pair payload.
func (s *Session) SetTokens(pair domain.TokenPair, user domain.UserProfile) error {
	return s.SetWithRefresh(pair.AccessToken, pair.RefreshToken, user)
}

// UpdateUser replaces the cached profile for an already-authenticated
// session, re-persisting the credentials so the stored record stays current.
// No-op when unauthenticated.
func (s *Session) UpdateUser(user domain.UserProfile) error {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return nil
	}

	_, refresh, _, _ := s.store.Read()
	return s.SetWithRefresh(token, refresh, user)
}

// Clear removes the token, user, and refresh credential from memory and
// durable storage. Idempotent: clearing an empty session is a no-op.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		return taskpiloterrors.Wrap(err, "failed to clear persisted session")
	}
	s.logger.Debug().Msg("session cleared")
	return nil
}

// OnExpired registers the callback fired when the session is terminated by a
// 401 response. Only one callback is held; later registrations replace
// earlier ones.
func (s *Session) OnExpired(fn ExpiredFunc) {
	s.mu.Lock()
	s.onExpired = fn
	s.mu.Unlock()
}

// Expire clears the session and fires the expiry callback exactly once.
// Called by the dispatcher when a 401 arrives outside the login endpoint.
// Local clearing proceeds even if durable storage cannot be updated.
func (s *Session) Expire() {
	if err := s.Clear(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear persisted session on expiry")
	}

	s.mu.RLock()
	fn := s.onExpired
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}
