package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpilot/taskpilot/internal/analytics"
	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/internal/auth"
	"github.com/taskpilot/taskpilot/internal/clock"
	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
	"github.com/taskpilot/taskpilot/internal/session"
	"github.com/taskpilot/taskpilot/internal/task"
	"github.com/taskpilot/taskpilot/internal/testutil"
)

// memStore is an in-memory credential store for command tests.
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

// scriptedDispatcher replays envelopes keyed by endpoint.
type scriptedDispatcher struct {
	responses map[string]*api.Envelope
	errs      map[string]error
	calls     []string
}

func newScriptedDispatcher() *scriptedDispatcher {
	return &scriptedDispatcher{
		responses: make(map[string]*api.Envelope),
		errs:      make(map[string]error),
	}
}

func (d *scriptedDispatcher) Do(_ context.Context, endpoint string, _ api.Options) (*api.Envelope, error) {
	d.calls = append(d.calls, endpoint)
	if err := d.errs[endpoint]; err != nil {
		return nil, err
	}
	if env := d.responses[endpoint]; env != nil {
		return env, nil
	}
	return &api.Envelope{Success: true}, nil
}

func (d *scriptedDispatcher) respondJSON(t *testing.T, endpoint string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	d.responses[endpoint] = &api.Envelope{Success: true, Data: data}
}

// newTestApp wires an App over a scripted dispatcher and in-memory store.
func newTestApp(t *testing.T, authenticated bool) (*App, *scriptedDispatcher) {
	t.Helper()

	dispatcher := newScriptedDispatcher()
	sess := session.New(&memStore{}, zerolog.Nop())
	if authenticated {
		require.NoError(t, sess.Set("tok", domain.UserProfile{
			"id":       "u-1",
			"username": "dev",
			"email":    "dev@example.com",
		}))
	}

	return &App{
		Session:   sess,
		Auth:      auth.NewService(dispatcher, sess, zerolog.Nop()),
		Tasks:     task.NewService(dispatcher, sess, clock.RealClock{}, zerolog.Nop()),
		Analytics: analytics.NewService(dispatcher, zerolog.Nop()),
		Logger:    zerolog.Nop(),
	}, dispatcher
}

func TestRunTaskList_RequiresAuthentication(t *testing.T) {
	t.Parallel()

	app, dispatcher := newTestApp(t, false)
	var buf bytes.Buffer

	err := runTaskList(context.Background(), &buf, app, &taskListFlags{}, OutputText)
	require.ErrorIs(t, err, taskpiloterrors.ErrNotAuthenticated)
	assert.Empty(t, dispatcher.calls)
}

func TestRunTaskList_RendersTable(t *testing.T) {
	t.Parallel()

	app, dispatcher := newTestApp(t, true)
	dispatcher.respondJSON(t, "/tasks", []domain.Task{
		{ID: "abcdef123456", Title: "Ship the report", Category: "Work", Priority: 2, Status: "pending"},
	})

	var buf bytes.Buffer
	err := runTaskList(context.Background(), &buf, app, &taskListFlags{}, OutputText)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Ship the report")
	assert.Contains(t, out, "abcdef12") // IDs are shortened for display
	assert.Contains(t, out, "pending")
}

func TestRunTaskList_EmptyList(t *testing.T) {
	t.Parallel()

	app, dispatcher := newTestApp(t, true)
	dispatcher.respondJSON(t, "/tasks", []domain.Task{})

	var buf bytes.Buffer
	err := runTaskList(context.Background(), &buf, app, &taskListFlags{}, OutputText)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No tasks found.")
}

func TestRunTaskList_JSONOutput(t *testing.T) {
	t.Parallel()

	app, dispatcher := newTestApp(t, true)
	dispatcher.respondJSON(t, "/tasks", []domain.Task{{ID: "t-1", Title: "x"}})

	var buf bytes.Buffer
	err := runTaskList(context.Background(), &buf, app, &taskListFlags{}, OutputJSON)
	require.NoError(t, err)

	var tasks []domain.Task
	require.NoError(t, json.Unmarshal(buf.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "t-1", tasks[0].ID)
}

func TestRunTaskList_InvalidStatusFilter(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, true)
	var buf bytes.Buffer

	err := runTaskList(context.Background(), &buf, app, &taskListFlags{status: "archived"}, OutputText)
	require.ErrorIs(t, err, taskpiloterrors.ErrInvalidStatus)
}

func TestRunTaskList_OverdueUsesDedicatedEndpoint(t *testing.T) {
	t.Parallel()

	app, dispatcher := newTestApp(t, true)
	dispatcher.respondJSON(t, "/tasks/overdue", []domain.Task{})

	var buf bytes.Buffer
	err := runTaskList(context.Background(), &buf, app, &taskListFlags{overdue: true}, OutputText)
	require.NoError(t, err)
	assert.Equal(t, []string{"/tasks/overdue"}, dispatcher.calls)
}

func TestRunLogin_FlagMode(t *testing.T) {
	t.Parallel()

	app, dispatcher := newTestApp(t, false)
	dispatcher.respondJSON(t, "/auth/login", map[string]any{
		"access_token": "tok-1",
		"user":         map[string]any{"username": "dev", "name": "Dev Example"},
	})

	var buf bytes.Buffer
	err := runLogin(context.Background(), &buf, app, &loginFlags{
		email:    "dev@example.com",
		password: "secret1",
	}, OutputText)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Signed in as Dev Example")
	assert.True(t, app.Session.IsAuthenticated())
}

func TestRunLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	app, dispatcher := newTestApp(t, false)
	dispatcher.responses["/auth/login"] = &api.Envelope{Success: false, Message: "invalid credentials"}

	var buf bytes.Buffer
	err := runLogin(context.Background(), &buf, app, &loginFlags{
		email:    "dev@example.com",
		password: "wrong-pw",
	}, OutputText)
	require.ErrorIs(t, err, taskpiloterrors.ErrAPI)
	assert.Contains(t, buf.String(), "invalid credentials")
	assert.False(t, app.Session.IsAuthenticated())
}

func TestRunLogout(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, true)
	var buf bytes.Buffer

	require.NoError(t, runLogout(context.Background(), &buf, app))
	assert.Contains(t, buf.String(), "Signed out.")
	assert.False(t, app.Session.IsAuthenticated())
}

func TestRunLogout_NotSignedIn(t *testing.T) {
	t.Parallel()

	app, dispatcher := newTestApp(t, false)
	var buf bytes.Buffer

	require.NoError(t, runLogout(context.Background(), &buf, app))
	assert.Contains(t, buf.String(), "Not signed in.")
	assert.Empty(t, dispatcher.calls)
}

func TestRunWhoami(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, true)
	var buf bytes.Buffer

	require.NoError(t, runWhoami(context.Background(), &buf, app, false, OutputText))
	assert.Contains(t, buf.String(), "dev")
	assert.Contains(t, buf.String(), "dev@example.com")
}

func TestRunWhoami_Unauthenticated(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, false)
	var buf bytes.Buffer

	err := runWhoami(context.Background(), &buf, app, false, OutputText)
	require.ErrorIs(t, err, taskpiloterrors.ErrNotAuthenticated)
}

func TestRunWhoami_RefreshUpdatesCachedProfile(t *testing.T) {
	t.Parallel()

	app, dispatcher := newTestApp(t, true)
	dispatcher.respondJSON(t, "/auth/profile", domain.UserProfile{
		"id":       "u-1",
		"username": "dev",
		"email":    "renamed@example.com",
	})

	var buf bytes.Buffer
	require.NoError(t, runWhoami(context.Background(), &buf, app, true, OutputText))
	assert.Contains(t, buf.String(), "renamed@example.com")
	assert.Contains(t, dispatcher.calls, "/auth/profile")
}

func TestRunWhoami_RefreshFailureSignsOut(t *testing.T) {
	t.Parallel()

	app, dispatcher := newTestApp(t, true)
	dispatcher.errs["/auth/profile"] = testutil.ErrMockNetwork

	var buf bytes.Buffer
	err := runWhoami(context.Background(), &buf, app, true, OutputText)
	require.Error(t, err)
	assert.False(t, app.Session.IsAuthenticated())
}

func TestRunDashboard_FallsBackWhenAIDown(t *testing.T) {
	t.Parallel()

	app, dispatcher := newTestApp(t, true)
	dispatcher.respondJSON(t, "/analytics/dashboard", map[string]any{"total_tasks": 4})
	dispatcher.respondJSON(t, "/analytics/completion-rate", map[string]any{"rate": "50%"})
	dispatcher.respondJSON(t, "/analytics/category-breakdown", map[string]any{"Work": 3})
	dispatcher.errs["/analytics/ai/recommendations"] = testutil.ErrMockNetwork

	var buf bytes.Buffer
	err := runDashboard(context.Background(), &buf, app, &dashboardFlags{period: "week"}, OutputText)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "offline defaults")
	assert.Contains(t, out, "Efficiency score")
}

func TestRunDashboard_SessionExpiryPropagates(t *testing.T) {
	t.Parallel()

	app, dispatcher := newTestApp(t, true)
	dispatcher.errs["/analytics/dashboard"] = taskpiloterrors.ErrSessionExpired
	dispatcher.respondJSON(t, "/analytics/completion-rate", map[string]any{})
	dispatcher.respondJSON(t, "/analytics/category-breakdown", map[string]any{})
	dispatcher.respondJSON(t, "/analytics/ai/recommendations", domain.DefaultRecommendations())

	var buf bytes.Buffer
	err := runDashboard(context.Background(), &buf, app, &dashboardFlags{}, OutputText)
	require.ErrorIs(t, err, taskpiloterrors.ErrSessionExpired)
}

func TestRunTaskAdd(t *testing.T) {
	t.Parallel()

	app, dispatcher := newTestApp(t, true)
	dispatcher.respondJSON(t, "/tasks", domain.Task{ID: "t-1", Title: "Ship it"})

	var buf bytes.Buffer
	err := runTaskAdd(context.Background(), &buf, app, "Ship it", &taskAddFlags{}, OutputText)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Created task")
}

func TestRunTaskAdd_BadDueDate(t *testing.T) {
	t.Parallel()

	app, dispatcher := newTestApp(t, true)
	var buf bytes.Buffer

	err := runTaskAdd(context.Background(), &buf, app, "x", &taskAddFlags{due: "next tuesday"}, OutputText)
	require.ErrorIs(t, err, taskpiloterrors.ErrValidation)
	assert.Empty(t, dispatcher.calls)
}

func TestRunExport_YAML(t *testing.T) {
	t.Parallel()

	app, dispatcher := newTestApp(t, true)
	dispatcher.respondJSON(t, "/analytics/export", map[string]any{"tasks": []any{map[string]any{"id": "t-1"}}})

	var buf bytes.Buffer
	err := runExport(context.Background(), &buf, app, &exportFlags{format: "yaml"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "tasks:")
	assert.Contains(t, buf.String(), "id: t-1")
}

func TestRunExport_InvalidFormat(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, true)
	var buf bytes.Buffer

	err := runExport(context.Background(), &buf, app, &exportFlags{format: "xml"})
	require.ErrorIs(t, err, taskpiloterrors.ErrInvalidExportFormat)
}

func TestSplitTags(t *testing.T) {
	t.Parallel()

	assert.Nil(t, splitTags(""))
	assert.Equal(t, []string{"a", "b"}, splitTags("a, b"))
	assert.Equal(t, []string{"a"}, splitTags("a,,  "))
}

func TestParseDueDate(t *testing.T) {
	t.Parallel()

	got, err := parseDueDate("2026-09-15")
	require.NoError(t, err)
	assert.Equal(t, 2026, got.Year())

	_, err = parseDueDate("15/09/2026")
	require.ErrorIs(t, err, taskpiloterrors.ErrValidation)
}
