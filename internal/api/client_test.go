package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
	"github.com/taskpilot/taskpilot/internal/session"
)

// memStore is a throwaway in-memory credential store.
type memStore struct {
	token   string
	refresh string
	user    domain.UserProfile
}

func (m *memStore) Read() (string, string, domain.UserProfile, error) {
	if m.token == "" {
		return "", "", nil, taskpiloterrors.ErrNoSession
	}
	return m.token, m.refresh, m.user, nil
}

func (m *memStore) Write(token, refresh string, user domain.UserProfile) error {
	m.token, m.refresh, m.user = token, refresh, user
	return nil
}

func (m *memStore) Clear() error {
	m.token, m.refresh, m.user = "", "", nil
	return nil
}

func newTestSession(t *testing.T, token string) *session.Session {
	t.Helper()
	sess := session.New(&memStore{}, zerolog.Nop())
	if token != "" {
		require.NoError(t, sess.Set(token, domain.UserProfile{"username": "dev"}))
	}
	return sess
}

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) (*Client, *session.Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := newTestSession(t, token)
	return NewWithHTTP(srv.URL, srv.Client(), sess, zerolog.Nop()), sess
}

func TestClient_SuccessEnvelope(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{"success": true, "data": {"id": "t-1"}}`))
	}, "tok")

	env, err := client.Do(context.Background(), "/tasks/t-1", Options{})
	require.NoError(t, err)
	assert.True(t, env.Success)

	var payload struct {
		ID string `json:"id"`
	}
	require.NoError(t, env.Decode(&payload))
	assert.Equal(t, "t-1", payload.ID)
}

func TestClient_BearerAttachedOutsideAuth(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}, "tok")

	_, err := client.Do(context.Background(), "/tasks", Options{})
	require.NoError(t, err)
}

func TestClient_NoBearerOnAuthEndpoints(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}, "stale-token")

	_, err := client.Do(context.Background(), "/auth/login", Options{Method: http.MethodPost})
	require.NoError(t, err)
}

func TestClient_NoBearerWhenUnauthenticated(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}, "")

	_, err := client.Do(context.Background(), "/tasks", Options{})
	require.NoError(t, err)
}

func TestClient_UnauthorizedExpiresSession(t *testing.T) {
	t.Parallel()

	client, sess := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "tok")

	fired := 0
	sess.OnExpired(func() { fired++ })

	_, err := client.Do(context.Background(), "/tasks", Options{})
	require.ErrorIs(t, err, taskpiloterrors.ErrSessionExpired)
	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, 1, fired)
}

func TestClient_UnauthorizedOnLoginIsAPIError(t *testing.T) {
	t.Parallel()

	client, sess := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success": false, "message": "invalid credentials"}`))
	}, "")

	fired := false
	sess.OnExpired(func() { fired = true })

	_, err := client.Do(context.Background(), "/auth/login", Options{Method: http.MethodPost})
	require.ErrorIs(t, err, taskpiloterrors.ErrAPI)
	assert.NotErrorIs(t, err, taskpiloterrors.ErrSessionExpired)
	assert.False(t, fired)
}

func TestClient_APIErrorCarriesServerMessage(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success": false, "message": "db down"}`))
	}, "tok")

	env, err := client.Do(context.Background(), "/tasks", Options{})
	require.ErrorIs(t, err, taskpiloterrors.ErrAPI)
	assert.Contains(t, err.Error(), "db down")
	require.NotNil(t, env)
	assert.Equal(t, "db down", env.Message)
}

func TestClient_APIErrorWithoutMessage(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, "tok")

	_, err := client.Do(context.Background(), "/tasks", Options{})
	require.ErrorIs(t, err, taskpiloterrors.ErrAPI)
	assert.Contains(t, err.Error(), "status 502")
}

func TestClient_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	sess := newTestSession(t, "tok")
	client := NewWithHTTP(srv.URL, srv.Client(), sess, zerolog.Nop())
	srv.Close() // nothing is listening anymore

	_, err := client.Do(context.Background(), "/tasks", Options{})
	require.ErrorIs(t, err, taskpiloterrors.ErrNetwork)

	// Transport failures never touch the session.
	assert.True(t, sess.IsAuthenticated())
}

func TestClient_QueryAndBody(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "pending", r.URL.Query().Get("status"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success": true}`))
	}, "tok")

	env, err := client.Do(context.Background(), "/tasks", Options{
		Method: http.MethodPost,
		Body:   map[string]string{"title": "x"},
		Query:  map[string][]string{"status": {"pending"}},
	})
	require.NoError(t, err)
	assert.True(t, env.Success)
}
