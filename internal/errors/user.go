package errors

import "errors"

// ErrorInfo holds a user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is the pre-built mapping of sentinel errors to their user-facing messages.
// This single source of truth ensures UserMessage and Actionable stay in sync.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	{
		err: ErrSessionExpired,
		info: ErrorInfo{
			Message: "Your session has expired.",
			Action:  "Run 'taskpilot login' to sign in again.",
		},
	},
	{
		err: ErrNetwork,
		info: ErrorInfo{
			Message: "Could not reach the TaskPilot server.",
			Action:  "Check your connection and the configured api.base_url, then retry.",
		},
	},
	{
		err: ErrNotAuthenticated,
		info: ErrorInfo{
			Message: "You are not signed in.",
			Action:  "Run 'taskpilot login' first.",
		},
	},
	{
		err: ErrCredentialsCorrupted,
		info: ErrorInfo{
			Message: "The stored credentials file could not be read.",
			Action:  "Run 'taskpilot login' to create a fresh session.",
		},
	},
	{
		err: ErrValidation,
		info: ErrorInfo{
			Message: "The provided input is invalid.",
		},
	},
	{
		err: ErrTaskNotFound,
		info: ErrorInfo{
			Message: "No task with that ID exists.",
			Action:  "Run 'taskpilot task list' to see available tasks.",
		},
	},
}

// UserMessage returns a user-friendly message for the given error.
// Falls back to the raw error string when no mapping exists.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info.Message
		}
	}
	return err.Error()
}

// Actionable returns the suggested action for the given error, or empty
// when no action is known.
func Actionable(err error) string {
	if err == nil {
		return ""
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info.Action
		}
	}
	return ""
}
