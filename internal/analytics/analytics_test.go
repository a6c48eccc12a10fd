package analytics

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
	"github.com/taskpilot/taskpilot/internal/testutil"
)

// mockDispatcher records the last request and replays a canned result.
type mockDispatcher struct {
	lastEndpoint string
	lastOpts     api.Options
	env          *api.Envelope
	err          error
}

func (m *mockDispatcher) Do(_ context.Context, endpoint string, opts api.Options) (*api.Envelope, error) {
	m.lastEndpoint = endpoint
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.env, nil
}

func newTestService(env *api.Envelope, err error) (*Service, *mockDispatcher) {
	mock := &mockDispatcher{env: env, err: err}
	return NewService(mock, zerolog.Nop()), mock
}

func TestFetchEndpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		call     func(svc *Service) (json.RawMessage, error)
		endpoint string
	}{
		{"dashboard", func(s *Service) (json.RawMessage, error) { return s.Dashboard(context.Background()) }, "/analytics/dashboard"},
		{"category breakdown", func(s *Service) (json.RawMessage, error) { return s.CategoryBreakdown(context.Background()) }, "/analytics/category-breakdown"},
		{"impact analysis", func(s *Service) (json.RawMessage, error) { return s.ImpactAnalysis(context.Background()) }, "/analytics/impact-analysis"},
		{"priority distribution", func(s *Service) (json.RawMessage, error) { return s.PriorityDistribution(context.Background()) }, "/analytics/priority-distribution"},
		{"timeline", func(s *Service) (json.RawMessage, error) { return s.Timeline(context.Background()) }, "/analytics/timeline"},
		{"performance", func(s *Service) (json.RawMessage, error) { return s.Performance(context.Background()) }, "/analytics/performance"},
		{"productivity", func(s *Service) (json.RawMessage, error) { return s.Productivity(context.Background()) }, "/analytics/productivity"},
		{"optimization", func(s *Service) (json.RawMessage, error) { return s.OptimizationTips(context.Background()) }, "/analytics/ai/optimization"},
		{"risk analysis", func(s *Service) (json.RawMessage, error) { return s.RiskAnalysis(context.Background()) }, "/analytics/ai/risk-analysis"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, mock := newTestService(&api.Envelope{Success: true, Data: json.RawMessage(`{"x": 1}`)}, nil)
			data, err := tc.call(svc)
			require.NoError(t, err)
			assert.JSONEq(t, `{"x": 1}`, string(data))
			assert.Equal(t, tc.endpoint, mock.lastEndpoint)
		})
	}
}

func TestCompletionRate_DefaultPeriod(t *testing.T) {
	t.Parallel()

	svc, mock := newTestService(&api.Envelope{Success: true, Data: json.RawMessage(`{}`)}, nil)

	_, err := svc.CompletionRate(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "week", mock.lastOpts.Query.Get("period"))

	_, err = svc.CompletionRate(context.Background(), "month")
	require.NoError(t, err)
	assert.Equal(t, "month", mock.lastOpts.Query.Get("period"))
}

func TestRecommendations_Success(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(domain.Recommendations{
		FocusAreas:      []string{"Finish the report"},
		EfficiencyScore: 72,
	})
	require.NoError(t, err)

	svc, _ := newTestService(&api.Envelope{Success: true, Data: data}, nil)

	recs, fromFallback, err := svc.Recommendations(context.Background())
	require.NoError(t, err)
	assert.False(t, fromFallback)
	assert.Equal(t, 72, recs.EfficiencyScore)
	assert.Equal(t, []string{"Finish the report"}, recs.FocusAreas)
}

func TestRecommendations_FallbackOnFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  *api.Envelope
		err  error
	}{
		{"dispatch error", nil, testutil.ErrMockNetwork},
		{"unsuccessful envelope", &api.Envelope{Success: false, Message: "ai down"}, nil},
		{"undecodable payload", &api.Envelope{Success: true, Data: json.RawMessage(`"oops"`)}, nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, _ := newTestService(tc.env, tc.err)
			recs, fromFallback, err := svc.Recommendations(context.Background())
			require.NoError(t, err)
			assert.True(t, fromFallback)
			assert.Equal(t, domain.DefaultRecommendations(), recs)
		})
	}
}

func TestRecommendations_SessionExpiryNotMasked(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(nil, taskpiloterrors.ErrSessionExpired)

	_, fromFallback, err := svc.Recommendations(context.Background())
	require.ErrorIs(t, err, taskpiloterrors.ErrSessionExpired)
	assert.False(t, fromFallback)
}

func TestExport_FormatValidation(t *testing.T) {
	t.Parallel()

	svc, mock := newTestService(&api.Envelope{Success: true, Data: json.RawMessage(`{}`)}, nil)

	_, err := svc.Export(context.Background(), "xml")
	require.ErrorIs(t, err, taskpiloterrors.ErrInvalidExportFormat)

	_, err = svc.Export(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "json", mock.lastOpts.Query.Get("format"))

	_, err = svc.Export(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "csv", mock.lastOpts.Query.Get("format"))
}

func TestFetch_APIFailurePropagates(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(&api.Envelope{Success: false, Message: "nope"}, nil)

	_, err := svc.Dashboard(context.Background())
	require.ErrorIs(t, err, taskpiloterrors.ErrAPI)
	assert.Contains(t, err.Error(), "nope")
}
