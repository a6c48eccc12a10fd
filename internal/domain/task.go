// Package domain provides shared domain types for the TaskPilot client.
// These types are used across all internal packages to ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// Two task shapes exist on purpose. Task is the backend wire shape: all JSON
// field names use snake_case and dates are ISO-8601. TaskDraft and TaskPatch
// are the client-side shapes (dueDate, estimatedHours naming); the adapter
// layer in internal/task is the single place where the rename between the
// two occurs, in both directions.
package domain

import (
	"time"

	"github.com/taskpilot/taskpilot/internal/constants"
)

// Task represents a task in the backend's canonical shape.
//
// Example JSON representation:
//
//	{
//	    "id": "64f1c9...",
//	    "title": "Ship quarterly report",
//	    "status": "in-progress",
//	    "priority": 2,
//	    "impact": 8,
//	    "category": "Work",
//	    "progress": 40,
//	    "due_date": "2026-09-01T17:00:00Z",
//	    "complexity": 3,
//	    "estimated_hours": 4.5,
//	    "tags": ["reporting", "q3"],
//	    "ai_insights": {...}
//	}
type Task struct {
	// ID is the backend-assigned identifier. Empty on outgoing create payloads.
	ID string `json:"id,omitempty"`

	// Title is the only field required on creation.
	Title string `json:"title"`

	// Description is free-form text. May be empty.
	Description string `json:"description"`

	// Category is a free-form label (default "Other").
	Category string `json:"category"`

	// Priority ranges 1-5 where 1 is most urgent.
	Priority int `json:"priority"`

	// Impact ranges 1-10.
	Impact int `json:"impact"`

	// Status is the lifecycle state (pending, in-progress, completed).
	Status constants.TaskStatus `json:"status"`

	// Progress ranges 0-100.
	Progress int `json:"progress"`

	// DueDate is serialized as an ISO-8601 timestamp.
	DueDate time.Time `json:"due_date"`

	// Tags is an ordered list of labels. Serialized as [] rather than null
	// when empty; the adapter guarantees a non-nil slice on create.
	Tags []string `json:"tags"`

	// Complexity is an integer estimate (default 3).
	Complexity int `json:"complexity"`

	// EstimatedHours is a float estimate (default 1.0).
	EstimatedHours float64 `json:"estimated_hours"`

	// AIInsights is the optional server-generated insight structure.
	// nil when the backend has not produced insights for this task.
	AIInsights *AIInsights `json:"ai_insights,omitempty"`

	// CreatedAt is set by the backend.
	CreatedAt *time.Time `json:"created_at,omitempty"`

	// UpdatedAt is set by the backend.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// AIInsights is the server-generated insight payload attached to a task.
// Every field is optional: the structure is opaque payload from an external
// service and consumers must not assume any field exists.
type AIInsights struct {
	// ComplexityScore is the model's complexity estimate.
	ComplexityScore *float64 `json:"complexity_score,omitempty"`

	// ConfidenceScore ranges 0-1.
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`

	// EstimatedCompletionTime is a human-readable duration estimate.
	EstimatedCompletionTime *string `json:"estimated_completion_time,omitempty"`

	// SimilarTasksCompleted counts comparable finished tasks.
	SimilarTasksCompleted *int `json:"similar_tasks_completed,omitempty"`

	// RecommendedApproach is free-form advisory text.
	RecommendedApproach *string `json:"recommended_approach,omitempty"`

	// PotentialBlockers lists predicted obstacles.
	PotentialBlockers []string `json:"potential_blockers,omitempty"`

	// SuggestedResources lists helpful references.
	SuggestedResources []string `json:"suggested_resources,omitempty"`
}

// TaskDraft is the client-side shape for creating a task. Field names follow
// the client convention (DueDate, EstimatedHours); zero values mean "apply
// the default" when the draft is adapted into a backend payload.
type TaskDraft struct {
	Title          string
	Description    string
	Category       string
	Priority       int
	Impact         int
	Status         constants.TaskStatus
	Progress       int
	DueDate        *time.Time
	Tags           []string
	Complexity     int
	EstimatedHours float64
}

// TaskPatch is the client-side shape for partial task updates.
//
// Convention for the clear-vs-omit ambiguity: a nil pointer means "do not
// touch this field" and the key is omitted from the outgoing payload; a
// non-nil pointer to the zero value means "clear this field" and the zero
// value is sent. JSON nulls are never sent.
type TaskPatch struct {
	Title          *string               `json:"title,omitempty"`
	Description    *string               `json:"description,omitempty"`
	Category       *string               `json:"category,omitempty"`
	Priority       *int                  `json:"priority,omitempty"`
	Impact         *int                  `json:"impact,omitempty"`
	Status         *constants.TaskStatus `json:"status,omitempty"`
	Progress       *int                  `json:"progress,omitempty"`
	DueDate        *time.Time            `json:"due_date,omitempty"`
	Tags           *[]string             `json:"tags,omitempty"`
	Complexity     *int                  `json:"complexity,omitempty"`
	EstimatedHours *float64              `json:"estimated_hours,omitempty"`
}

// IsEmpty reports whether the patch contains no fields to send.
func (p *TaskPatch) IsEmpty() bool {
	return p == nil || (p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Priority == nil && p.Impact == nil && p.Status == nil && p.Progress == nil &&
		p.DueDate == nil && p.Tags == nil && p.Complexity == nil && p.EstimatedHours == nil)
}

// TaskFilters holds optional query filters for task list requests.
// Zero-valued fields are omitted from the query string.
type TaskFilters struct {
	// Status filters by lifecycle state.
	Status constants.TaskStatus

	// Category filters by category label.
	Category string

	// Priority filters by priority (0 means unset).
	Priority int

	// Tag filters by a single tag.
	Tag string
}
