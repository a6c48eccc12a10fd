// Package constants provides centralized constant values used throughout TaskPilot.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

// Directory and file names used by TaskPilot for local state.
const (
	// TaskPilotHome is the hidden directory name where TaskPilot stores all its data.
	// This directory is created in the user's home directory.
	TaskPilotHome = ".taskpilot"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// CredentialsFileName is the JSON file that stores the persisted session.
	CredentialsFileName = "credentials.json"

	// CLILogFileName is the name of the rotating CLI log file.
	CLILogFileName = "taskpilot.log"
)

// Durable storage keys for session data. The access token and user record
// are always written together; all three keys are cleared together on
// logout or session expiry.
const (
	// StorageKeyAccessToken is the key under which the bearer token is persisted.
	StorageKeyAccessToken = "access_token"

	// StorageKeyRefreshToken is the key under which the refresh token is persisted.
	StorageKeyRefreshToken = "refresh_token"

	// StorageKeyUser is the key under which the serialized user profile is persisted.
	StorageKeyUser = "user"
)

// API configuration defaults.
const (
	// DefaultBaseURL is the API base URL used when no configuration is provided.
	DefaultBaseURL = "http://localhost:5000/api/v1"

	// AuthPathPrefix marks endpoints that never receive bearer credentials.
	// Stale tokens must not be sent during login or registration.
	AuthPathPrefix = "/auth/"

	// LoginPath is the one endpoint where a 401 means bad credentials
	// rather than an expired session.
	LoginPath = "/auth/login"
)

// Task field defaults applied when creating tasks with missing fields.
const (
	// DefaultCategory is used when a new task has no category.
	DefaultCategory = "Other"

	// DefaultPriority is used when a new task has no priority (1 = most urgent, 5 = least).
	DefaultPriority = 3

	// DefaultImpact is used when a new task has no impact score (1-10).
	DefaultImpact = 5

	// DefaultComplexity is used when a new task has no complexity estimate.
	DefaultComplexity = 3

	// DefaultEstimatedHours is used when a new task has no hour estimate.
	DefaultEstimatedHours = 1.0
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the maximum size in megabytes before log rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the maximum number of rotated log files to keep.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age in days before rotated logs are deleted.
	LogMaxAgeDays = 30

	// LogCompress determines whether rotated logs are gzip-compressed.
	LogCompress = true
)
