package task

import (
	"fmt"
	"time"

	"github.com/taskpilot/taskpilot/internal/constants"
	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
)

// FromDraft translates a client-side draft into the backend's canonical
// shape, applying the create-time defaulting rules:
//
//	category        -> "Other"
//	priority        -> 3
//	impact          -> 5
//	status          -> "pending"
//	progress        -> 0
//	complexity      -> 3
//	estimated_hours -> 1.0
//	tags            -> []
//	due_date        -> now
//
// now supplies the due-date default so callers control the timestamp.
func FromDraft(draft domain.TaskDraft, now time.Time) (domain.Task, error) {
	if draft.Title == "" {
		return domain.Task{}, fmt.Errorf("%w: title is required", taskpiloterrors.ErrValidation)
	}

	t := domain.Task{
		Title:          draft.Title,
		Description:    draft.Description,
		Category:       draft.Category,
		Priority:       draft.Priority,
		Impact:         draft.Impact,
		Status:         draft.Status,
		Progress:       draft.Progress,
		Tags:           draft.Tags,
		Complexity:     draft.Complexity,
		EstimatedHours: draft.EstimatedHours,
	}

	if t.Category == "" {
		t.Category = constants.DefaultCategory
	}
	if t.Priority == 0 {
		t.Priority = constants.DefaultPriority
	}
	if t.Impact == 0 {
		t.Impact = constants.DefaultImpact
	}
	if t.Status == "" {
		t.Status = constants.TaskStatusPending
	}
	if t.Complexity == 0 {
		t.Complexity = constants.DefaultComplexity
	}
	if t.EstimatedHours == 0 {
		t.EstimatedHours = constants.DefaultEstimatedHours
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if draft.DueDate != nil {
		t.DueDate = *draft.DueDate
	} else {
		t.DueDate = now
	}

	if err := validateTask(&t); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// ToDraft translates a backend task back into the client-side shape.
// Together with FromDraft this forms the round trip: date and hour fields
// survive both directions exactly.
func ToDraft(t domain.Task) domain.TaskDraft {
	due := t.DueDate
	return domain.TaskDraft{
		Title:          t.Title,
		Description:    t.Description,
		Category:       t.Category,
		Priority:       t.Priority,
		Impact:         t.Impact,
		Status:         t.Status,
		Progress:       t.Progress,
		DueDate:        &due,
		Tags:           t.Tags,
		Complexity:     t.Complexity,
		EstimatedHours: t.EstimatedHours,
	}
}

// validateTask checks range constraints on an outgoing payload.
func validateTask(t *domain.Task) error {
	if !constants.IsValidTaskStatus(t.Status) {
		return fmt.Errorf("%w: %q, want one of %v", taskpiloterrors.ErrInvalidStatus, t.Status, constants.ValidTaskStatuses())
	}
	if t.Priority < 1 || t.Priority > 5 {
		return fmt.Errorf("%w: priority %d, want 1-5", taskpiloterrors.ErrValueOutOfRange, t.Priority)
	}
	if t.Impact < 1 || t.Impact > 10 {
		return fmt.Errorf("%w: impact %d, want 1-10", taskpiloterrors.ErrValueOutOfRange, t.Impact)
	}
	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("%w: progress %d, want 0-100", taskpiloterrors.ErrValueOutOfRange, t.Progress)
	}
	return nil
}

// validatePatch checks range constraints on the fields a patch carries.
func validatePatch(p *domain.TaskPatch) error {
	if p.Status != nil && !constants.IsValidTaskStatus(*p.Status) {
		return fmt.Errorf("%w: %q, want one of %v", taskpiloterrors.ErrInvalidStatus, *p.Status, constants.ValidTaskStatuses())
	}
	if p.Priority != nil && (*p.Priority < 1 || *p.Priority > 5) {
		return fmt.Errorf("%w: priority %d, want 1-5", taskpiloterrors.ErrValueOutOfRange, *p.Priority)
	}
	if p.Impact != nil && (*p.Impact < 1 || *p.Impact > 10) {
		return fmt.Errorf("%w: impact %d, want 1-10", taskpiloterrors.ErrValueOutOfRange, *p.Impact)
	}
	if p.Progress != nil && (*p.Progress < 0 || *p.Progress > 100) {
		return fmt.Errorf("%w: progress %d, want 0-100", taskpiloterrors.ErrValueOutOfRange, *p.Progress)
	}
	return nil
}
