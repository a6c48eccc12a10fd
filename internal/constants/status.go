package constants

// TaskStatus represents the lifecycle state of a task on the backend.
type TaskStatus string

// Valid task statuses. The backend accepts exactly these three values.
const (
	// TaskStatusPending indicates a task that has not been started.
	TaskStatusPending TaskStatus = "pending"

	// TaskStatusInProgress indicates a task currently being worked on.
	TaskStatusInProgress TaskStatus = "in-progress"

	// TaskStatusCompleted indicates a finished task.
	TaskStatusCompleted TaskStatus = "completed"
)

// ValidTaskStatuses returns all accepted task status values.
func ValidTaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}
}

// IsValidTaskStatus reports whether s is an accepted task status.
func IsValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}
