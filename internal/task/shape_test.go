package task

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpilot/taskpilot/internal/constants"
	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
)

func TestFromDraft_AppliesDefaults(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	got, err := FromDraft(domain.TaskDraft{Title: "Ship it"}, now)
	require.NoError(t, err)

	assert.Equal(t, "Ship it", got.Title)
	assert.Equal(t, constants.DefaultCategory, got.Category)
	assert.Equal(t, constants.DefaultPriority, got.Priority)
	assert.Equal(t, constants.DefaultImpact, got.Impact)
	assert.Equal(t, constants.TaskStatusPending, got.Status)
	assert.Equal(t, 0, got.Progress)
	assert.Equal(t, constants.DefaultComplexity, got.Complexity)
	assert.InDelta(t, constants.DefaultEstimatedHours, got.EstimatedHours, 0.001)
	assert.Equal(t, now, got.DueDate)
	require.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
}

func TestFromDraft_KeepsExplicitValues(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 7)

	got, err := FromDraft(domain.TaskDraft{
		Title:          "Plan sprint",
		Description:    "quarterly planning",
		Category:       "Work",
		Priority:       1,
		Impact:         9,
		Status:         constants.TaskStatusInProgress,
		Progress:       40,
		DueDate:        &due,
		Tags:           []string{"planning"},
		Complexity:     7,
		EstimatedHours: 4.5,
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "Work", got.Category)
	assert.Equal(t, 1, got.Priority)
	assert.Equal(t, 9, got.Impact)
	assert.Equal(t, constants.TaskStatusInProgress, got.Status)
	assert.Equal(t, 40, got.Progress)
	assert.Equal(t, due, got.DueDate)
	assert.Equal(t, []string{"planning"}, got.Tags)
	assert.Equal(t, 7, got.Complexity)
	assert.InDelta(t, 4.5, got.EstimatedHours, 0.001)
}

func TestFromDraft_RequiresTitle(t *testing.T) {
	t.Parallel()

	_, err := FromDraft(domain.TaskDraft{}, time.Now())
	require.ErrorIs(t, err, taskpiloterrors.ErrValidation)
}

func TestFromDraft_RangeChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		draft   domain.TaskDraft
		wantErr error
	}{
		{"priority too high", domain.TaskDraft{Title: "x", Priority: 6}, taskpiloterrors.ErrValueOutOfRange},
		{"priority negative", domain.TaskDraft{Title: "x", Priority: -1}, taskpiloterrors.ErrValueOutOfRange},
		{"impact too high", domain.TaskDraft{Title: "x", Impact: 11}, taskpiloterrors.ErrValueOutOfRange},
		{"progress too high", domain.TaskDraft{Title: "x", Progress: 101}, taskpiloterrors.ErrValueOutOfRange},
		{"bad status", domain.TaskDraft{Title: "x", Status: "done"}, taskpiloterrors.ErrInvalidStatus},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := FromDraft(tc.draft, time.Now())
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestDraftRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 1, 0)

	original := domain.TaskDraft{
		Title:          "Round trip",
		Category:       "Work",
		Priority:       2,
		Impact:         6,
		Status:         constants.TaskStatusPending,
		DueDate:        &due,
		Tags:           []string{"a", "b"},
		Complexity:     4,
		EstimatedHours: 2.5,
	}

	wire, err := FromDraft(original, now)
	require.NoError(t, err)

	back := ToDraft(wire)
	require.NotNil(t, back.DueDate)
	assert.Equal(t, due, *back.DueDate)
	assert.InDelta(t, 2.5, back.EstimatedHours, 0.001)
	assert.Equal(t, original.Tags, back.Tags)
}

func TestTaskWireFieldNames(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	wire, err := FromDraft(domain.TaskDraft{Title: "x"}, now)
	require.NoError(t, err)

	data, err := json.Marshal(wire)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Contains(t, m, "due_date")
	assert.Contains(t, m, "estimated_hours")
	assert.NotContains(t, m, "dueDate")
	assert.NotContains(t, m, "estimatedHours")
}

func TestPatchMarshal_OmitsAbsentAndSendsZero(t *testing.T) {
	t.Parallel()

	empty := ""
	progress := 0
	patch := domain.TaskPatch{
		Description: &empty,    // explicit clear
		Progress:    &progress, // explicit zero
	}

	data, err := json.Marshal(&patch)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	// Only the set fields appear; cleared fields carry zero values, not null.
	assert.Len(t, m, 2)
	assert.Equal(t, "", m["description"])
	assert.InDelta(t, 0.0, m["progress"], 0.001)
	assert.NotContains(t, m, "title")
	assert.NotContains(t, string(data), "null")
}

func TestPatchIsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, (&domain.TaskPatch{}).IsEmpty())
	assert.True(t, (*domain.TaskPatch)(nil).IsEmpty())

	title := "x"
	assert.False(t, (&domain.TaskPatch{Title: &title}).IsEmpty())
}
