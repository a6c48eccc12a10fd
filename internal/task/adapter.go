// Package task provides the task adapters: each operation pairs a client
// action with a backend /tasks endpoint and performs shape translation in
// both directions. The dueDate/estimatedHours to due_date/estimated_hours
// rename happens here and nowhere else.
package task

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/internal/clock"
	"github.com/taskpilot/taskpilot/internal/constants"
	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
)

// Dispatcher is the request dispatch interface the adapters depend on.
// Satisfied by api.Client; mocked in tests.
type Dispatcher interface {
	Do(ctx context.Context, endpoint string, opts api.Options) (*api.Envelope, error)
}

// SessionState is the slice of session behavior FetchTasks needs.
// Satisfied by session.Session; nil skips the local check and lets the
// server decide.
type SessionState interface {
	IsAuthenticated() bool
	Expire()
}

// Service bundles the task adapters with their dependencies.
type Service struct {
	client  Dispatcher
	session SessionState
	clock   clock.Clock
	logger  zerolog.Logger
}

// NewService creates the task adapter service.
func NewService(client Dispatcher, sess SessionState, clk clock.Clock, logger zerolog.Logger) *Service {
	return &Service{
		client:  client,
		session: sess,
		clock:   clk,
		logger:  logger.With().Str("component", "tasks").Logger(),
	}
}

// List fetches tasks, optionally filtered. A nil filters value fetches
// everything. Every call issues a fresh request; nothing is cached.
func (s *Service) List(ctx context.Context, filters *domain.TaskFilters) ([]domain.Task, error) {
	opts := api.Options{}
	if filters != nil {
		opts.Query = filterQuery(filters)
	}
	return s.fetchTasks(ctx, "/tasks", opts)
}

// FetchTasks is the tolerant list variant: when no session is held it fires
// the expiry flow and returns an empty list instead of an error, letting the
// caller render a signed-out view. Authenticated calls behave like List.
func (s *Service) FetchTasks(ctx context.Context, filters *domain.TaskFilters) ([]domain.Task, error) {
	if s.session != nil && !s.session.IsAuthenticated() {
		s.session.Expire()
		return []domain.Task{}, nil
	}
	return s.List(ctx, filters)
}

// Get fetches a single task by ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.Task, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: task ID %v", taskpiloterrors.ErrValidation, taskpiloterrors.ErrEmptyValue)
	}

	env, err := s.client.Do(ctx, "/tasks/"+url.PathEscape(id), api.Options{})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", taskpiloterrors.ErrAPI, env.Message)
	}

	var t domain.Task
	if err := env.Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create builds the backend payload from the draft, applying the defaulting
// rules for every missing field, and posts it.
func (s *Service) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	payload, err := FromDraft(draft, s.clock.Now())
	if err != nil {
		return nil, err
	}

	env, err := s.client.Do(ctx, "/tasks", api.Options{
		Method: http.MethodPost,
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", taskpiloterrors.ErrAPI, env.Message)
	}

	var created domain.Task
	if err := env.Decode(&created); err != nil {
		return nil, err
	}
	s.logger.Info().Str("task_id", created.ID).Msg("task created")
	return &created, nil
}

// Update sends a partial update. Only fields present in the patch appear in
// the payload; absent fields never overwrite backend values.
func (s *Service) Update(ctx context.Context, id string, patch *domain.TaskPatch) (*domain.Task, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: task ID %v", taskpiloterrors.ErrValidation, taskpiloterrors.ErrEmptyValue)
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: patch contains no fields", taskpiloterrors.ErrValidation)
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	env, err := s.client.Do(ctx, "/tasks/"+url.PathEscape(id), api.Options{
		Method: http.MethodPut,
		Body:   patch,
	})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", taskpiloterrors.ErrAPI, env.Message)
	}

	var updated domain.Task
	if err := env.Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: task ID %v", taskpiloterrors.ErrValidation, taskpiloterrors.ErrEmptyValue)
	}

	env, err := s.client.Do(ctx, "/tasks/"+url.PathEscape(id), api.Options{
		Method: http.MethodDelete,
	})
	if err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("%w: %s", taskpiloterrors.ErrAPI, env.Message)
	}
	return nil
}

// UpdateStatus sends a status-only partial update.
func (s *Service) UpdateStatus(ctx context.Context, id string, status constants.TaskStatus) (*domain.Task, error) {
	if !constants.IsValidTaskStatus(status) {
		return nil, fmt.Errorf("%w: %q, want one of %v", taskpiloterrors.ErrInvalidStatus, status, constants.ValidTaskStatuses())
	}
	return s.patchField(ctx, id, "status", map[string]constants.TaskStatus{"status": status})
}

// UpdateProgress sends a progress-only partial update. Progress is 0-100.
func (s *Service) UpdateProgress(ctx context.Context, id string, progress int) (*domain.Task, error) {
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("%w: progress %d, want 0-100", taskpiloterrors.ErrValueOutOfRange, progress)
	}
	return s.patchField(ctx, id, "progress", map[string]int{"progress": progress})
}

// ByCategory fetches all tasks carrying the given category label.
func (s *Service) ByCategory(ctx context.Context, category string) ([]domain.Task, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category %v", taskpiloterrors.ErrValidation, taskpiloterrors.ErrEmptyValue)
	}
	return s.fetchTasks(ctx, "/tasks/category/"+url.PathEscape(category), api.Options{})
}

// ByPriority fetches all tasks at the given priority (1-5).
func (s *Service) ByPriority(ctx context.Context, priority int) ([]domain.Task, error) {
	if priority < 1 || priority > 5 {
		return nil, fmt.Errorf("%w: priority %d, want 1-5", taskpiloterrors.ErrValueOutOfRange, priority)
	}
	return s.fetchTasks(ctx, "/tasks/priority/"+strconv.Itoa(priority), api.Options{})
}

// Overdue fetches tasks past their due date.
func (s *Service) Overdue(ctx context.Context) ([]domain.Task, error) {
	return s.fetchTasks(ctx, "/tasks/overdue", api.Options{})
}

// Upcoming fetches tasks with approaching due dates.
func (s *Service) Upcoming(ctx context.Context) ([]domain.Task, error) {
	return s.fetchTasks(ctx, "/tasks/upcoming", api.Options{})
}

// BulkCreate adapts every draft with the same defaulting rules as Create
// and posts them in one request.
func (s *Service) BulkCreate(ctx context.Context, drafts []domain.TaskDraft) ([]domain.Task, error) {
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: no tasks to create", taskpiloterrors.ErrValidation)
	}

	now := s.clock.Now()
	payload := make([]domain.Task, 0, len(drafts))
	for i, draft := range drafts {
		t, err := FromDraft(draft, now)
		if err != nil {
			return nil, taskpiloterrors.Wrapf(err, "task %d", i+1)
		}
		payload = append(payload, t)
	}

	env, err := s.client.Do(ctx, "/tasks/bulk", api.Options{
		Method: http.MethodPost,
		Body:   map[string][]domain.Task{"tasks": payload},
	})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", taskpiloterrors.ErrAPI, env.Message)
	}

	var created []domain.Task
	if err := env.Decode(&created); err != nil {
		return nil, err
	}
	s.logger.Info().Int("count", len(created)).Msg("tasks created in bulk")
	return created, nil
}

// BulkDelete removes the given tasks in one request.
func (s *Service) BulkDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no task IDs to delete", taskpiloterrors.ErrValidation)
	}

	env, err := s.client.Do(ctx, "/tasks/bulk", api.Options{
		Method: http.MethodDelete,
		Body:   map[string][]string{"task_ids": ids},
	})
	if err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("%w: %s", taskpiloterrors.ErrAPI, env.Message)
	}
	return nil
}

// fetchTasks runs a GET returning a task list.
func (s *Service) fetchTasks(ctx context.Context, endpoint string, opts api.Options) ([]domain.Task, error) {
	env, err := s.client.Do(ctx, endpoint, opts)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", taskpiloterrors.ErrAPI, env.Message)
	}

	var tasks []domain.Task
	if err := env.Decode(&tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// patchField runs a PATCH against a single-field sub-resource endpoint.
func (s *Service) patchField(ctx context.Context, id, field string, body any) (*domain.Task, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: task ID %v", taskpiloterrors.ErrValidation, taskpiloterrors.ErrEmptyValue)
	}

	env, err := s.client.Do(ctx, "/tasks/"+url.PathEscape(id)+"/"+field, api.Options{
		Method: http.MethodPatch,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", taskpiloterrors.ErrAPI, env.Message)
	}

	var updated domain.Task
	if err := env.Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// filterQuery translates filters into query parameters, omitting zero values.
func filterQuery(f *domain.TaskFilters) url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Priority != 0 {
		q.Set("priority", strconv.Itoa(f.Priority))
	}
	if f.Tag != "" {
		q.Set("tag", f.Tag)
	}
	return q
}
