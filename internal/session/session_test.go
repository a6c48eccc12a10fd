package session

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
)

// memStore is an in-memory Store for session tests.
type memStore struct {
	token    string
	refresh  string
	user     domain.UserProfile
	empty    bool
	readErr  error
	writeErr error
	clearErr error
}

func newMemStore() *memStore {
	return &memStore{empty: true}
}

func (m *memStore) Read() (string, string, domain.UserProfile, error) {
	if m.readErr != nil {
		return "", "", nil, m.readErr
	}
	if m.empty {
		return "", "", nil, taskpiloterrors.ErrNoSession
	}
	return m.token, m.refresh, m.user, nil
}

func (m *memStore) Write(token, refresh string, user domain.UserProfile) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.token, m.refresh, m.user, m.empty = token, refresh, user, false
	return nil
}

func (m *memStore) Clear() error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.token, m.refresh, m.user, m.empty = "", "", nil, true
	return nil
}

func TestSession_StartsUnauthenticated(t *testing.T) {
	t.Parallel()

	s := New(newMemStore(), zerolog.Nop())
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.CurrentUser())
}

func TestSession_InitializeRestoresBoth(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	require.NoError(t, store.Write("tok", "ref", testUser()))

	s := New(store, zerolog.Nop())
	s.Initialize()

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok", s.Token())
	assert.Equal(t, "dev", s.CurrentUser()["username"])
}

func TestSession_InitializeRequiresUser(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.token, store.empty = "tok", false // token without user record

	s := New(store, zerolog.Nop())
	s.Initialize()

	assert.False(t, s.IsAuthenticated())
}

func TestSession_InitializeMissingFileIsCold(t *testing.T) {
	t.Parallel()

	s := New(newMemStore(), zerolog.Nop())
	s.Initialize()
	assert.False(t, s.IsAuthenticated())
}

func TestSession_InitializeCorruptedIsCold(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.readErr = taskpiloterrors.ErrCredentialsCorrupted

	s := New(store, zerolog.Nop())
	s.Initialize()
	assert.False(t, s.IsAuthenticated())
}

func TestSession_SetPersistsBeforeMemory(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.writeErr = taskpiloterrors.ErrNetwork

	s := New(store, zerolog.Nop())
	err := s.Set("tok", testUser())
	require.Error(t, err)

	// A failed durable write must not leave the memory state authenticated.
	assert.False(t, s.IsAuthenticated())
}

func TestSession_SetThenClear(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	s := New(store, zerolog.Nop())

	require.NoError(t, s.Set("tok", testUser()))
	assert.True(t, s.IsAuthenticated())
	assert.False(t, store.empty)

	require.NoError(t, s.Clear())
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.CurrentUser())
	assert.True(t, store.empty)

	// Idempotent.
	require.NoError(t, s.Clear())
}

func TestSession_SetTokens(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	s := New(store, zerolog.Nop())

	pair := domain.TokenPair{AccessToken: "tok", RefreshToken: "ref"}
	require.NoError(t, s.SetTokens(pair, testUser()))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok", store.token)
	assert.Equal(t, "ref", store.refresh)
}

func TestSession_UpdateUserKeepsRefreshToken(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	s := New(store, zerolog.Nop())
	require.NoError(t, s.SetWithRefresh("tok", "ref", testUser()))

	updated := testUser()
	updated["name"] = "New Name"
	require.NoError(t, s.UpdateUser(updated))

	assert.Equal(t, "tok", store.token)
	assert.Equal(t, "ref", store.refresh)
	assert.Equal(t, "New Name", store.user["name"])
	assert.Equal(t, "New Name", s.CurrentUser()["name"])
}

func TestSession_UpdateUserUnauthenticatedNoop(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	s := New(store, zerolog.Nop())

	require.NoError(t, s.UpdateUser(testUser()))
	assert.True(t, store.empty)
}

func TestSession_ExpireFiresCallbackOnce(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	s := New(store, zerolog.Nop())
	require.NoError(t, s.Set("tok", testUser()))

	fired := 0
	s.OnExpired(func() { fired++ })

	s.Expire()
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, 1, fired)
}

func TestSession_ExpireClearsEvenWhenStoreFails(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	s := New(store, zerolog.Nop())
	require.NoError(t, s.Set("tok", testUser()))

	store.clearErr = taskpiloterrors.ErrNetwork
	fired := false
	s.OnExpired(func() { fired = true })

	s.Expire()
	assert.False(t, s.IsAuthenticated())
	assert.True(t, fired)
}

func TestSession_ExpireWithoutCallback(t *testing.T) {
	t.Parallel()

	s := New(newMemStore(), zerolog.Nop())
	require.NoError(t, s.Set("tok", testUser()))

	// No callback registered; must not panic.
	s.Expire()
	assert.False(t, s.IsAuthenticated())
}
