// Package errors provides centralized error handling for TaskPilot.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrSessionExpired indicates a 401 response outside the login endpoint.
	// The session has been cleared; a fresh login is required.
	ErrSessionExpired = errors.New("session expired")

	// ErrAPI indicates a non-2xx response from the backend that is not
	// a session expiry. The wrapped message carries the server-supplied
	// text when the backend provided one.
	ErrAPI = errors.New("api request failed")

	// ErrNetwork indicates the request produced no response at all
	// (DNS failure, connection refused, transport error).
	ErrNetwork = errors.New("network request failed")

	// ErrValidation indicates caller-side input validation failed before
	// any network call was made.
	ErrValidation = errors.New("validation failed")

	// ErrNotAuthenticated indicates an operation that requires a session
	// was attempted without one.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoSession indicates no persisted session was found in durable storage.
	ErrNoSession = errors.New("no stored session")

	// ErrCredentialsCorrupted indicates the persisted credentials file could
	// not be parsed.
	ErrCredentialsCorrupted = errors.New("stored credentials corrupted")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrValueOutOfRange indicates that a value is outside the allowed range.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrInvalidStatus indicates an unknown task status value.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidAPI indicates an invalid API configuration value.
	ErrConfigInvalidAPI = errors.New("invalid API configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidExportFormat indicates an unsupported export format was requested.
	ErrInvalidExportFormat = errors.New("invalid export format")

	// ErrTaskNotFound indicates the requested task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrOperationCanceled indicates the user canceled an interactive operation.
	ErrOperationCanceled = errors.New("operation canceled by user")
)
