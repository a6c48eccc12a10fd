// Package analytics provides the analytics and AI adapters. These are
// opaque pass-through calls: the adapter forwards whatever structure the
// backend returns without interpreting it, and the recommendation surface
// falls back to a locally defined default set so the dashboard is always
// populated.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
)

// Valid export formats accepted by the export endpoint.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)

// Dispatcher is the request dispatch interface the adapters depend on.
// Satisfied by api.Client; mocked in tests.
type Dispatcher interface {
	Do(ctx context.Context, endpoint string, opts api.Options) (*api.Envelope, error)
}

// Service bundles the analytics adapters with their dependencies.
type Service struct {
	client Dispatcher
	logger zerolog.Logger
}

// NewService creates the analytics adapter service.
func NewService(client Dispatcher, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With().Str("component", "analytics").Logger(),
	}
}

// Dashboard fetches the aggregate dashboard statistics.
func (s *Service) Dashboard(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, "/analytics/dashboard", nil)
}

// CompletionRate fetches the completion rate for a period (default "week").
func (s *Service) CompletionRate(ctx context.Context, period string) (json.RawMessage, error) {
	if period == "" {
		period = "week"
	}
	return s.fetch(ctx, "/analytics/completion-rate", url.Values{"period": []string{period}})
}

// CategoryBreakdown fetches task counts grouped by category.
func (s *Service) CategoryBreakdown(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, "/analytics/category-breakdown", nil)
}

// ImpactAnalysis fetches the impact analysis breakdown.
func (s *Service) ImpactAnalysis(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, "/analytics/impact-analysis", nil)
}

// PriorityDistribution fetches task counts grouped by priority.
func (s *Service) PriorityDistribution(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, "/analytics/priority-distribution", nil)
}

// Timeline fetches time-series task data.
func (s *Service) Timeline(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, "/analytics/timeline", nil)
}

// Performance fetches performance metrics.
func (s *Service) Performance(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, "/analytics/performance", nil)
}

// Productivity fetches the productivity score.
func (s *Service) Productivity(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, "/analytics/productivity", nil)
}

// Recommendations fetches the AI recommendation set. Whenever the call
// fails or returns unsuccessfully the locally defined default set is
// returned instead, along with fromFallback=true, so the caller always has
// something to render. A session expiry is never masked by the fallback.
func (s *Service) Recommendations(ctx context.Context) (domain.Recommendations, bool, error) {
	env, err := s.client.Do(ctx, "/analytics/ai/recommendations", api.Options{})
	if err != nil {
		if errors.Is(err, taskpiloterrors.ErrSessionExpired) {
			return domain.Recommendations{}, false, err
		}
		s.logger.Warn().Err(err).Msg("recommendation fetch failed, using defaults")
		return domain.DefaultRecommendations(), true, nil
	}
	if !env.Success {
		s.logger.Warn().Str("message", env.Message).Msg("recommendation call unsuccessful, using defaults")
		return domain.DefaultRecommendations(), true, nil
	}

	var recs domain.Recommendations
	if err := env.Decode(&recs); err != nil {
		s.logger.Warn().Err(err).Msg("recommendation payload undecodable, using defaults")
		return domain.DefaultRecommendations(), true, nil
	}
	return recs, false, nil
}

// OptimizationTips fetches AI workflow optimization tips.
func (s *Service) OptimizationTips(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, "/analytics/ai/optimization", nil)
}

// RiskAnalysis fetches the AI risk analysis.
func (s *Service) RiskAnalysis(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, "/analytics/ai/risk-analysis", nil)
}

// Export fetches the user's data in the requested format (default "json").
func (s *Service) Export(ctx context.Context, format string) (json.RawMessage, error) {
	if format == "" {
		format = FormatJSON
	}
	switch format {
	case FormatJSON, FormatCSV, FormatYAML:
	default:
		return nil, fmt.Errorf("%w: %q, want one of json, csv, yaml", taskpiloterrors.ErrInvalidExportFormat, format)
	}
	return s.fetch(ctx, "/analytics/export", url.Values{"format": []string{format}})
}

// fetch runs a GET returning the raw data payload.
func (s *Service) fetch(ctx context.Context, endpoint string, query url.Values) (json.RawMessage, error) {
	env, err := s.client.Do(ctx, endpoint, api.Options{Query: query})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", taskpiloterrors.ErrAPI, env.Message)
	}
	return env.Data, nil
}
