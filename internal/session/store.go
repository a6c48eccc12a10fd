// Package session holds the client's authentication state: the bearer token
// and the cached user profile, persisted to a credentials file under the
// TaskPilot home directory.
//
// A single Session instance is constructed at startup and passed by reference
// to the dispatcher and adapters. Session expiry is exposed as a callback the
// presentation layer subscribes to, so the data layer never drives navigation
// itself.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/taskpilot/taskpilot/internal/constants"
	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
)

// File and directory permission constants.
const (
	dirPerm  = 0o750 // Secure directory permissions
	filePerm = 0o600 // Credentials are secrets; owner-only
)

// credentials is the on-disk shape of the persisted session. The three keys
// mirror the durable storage contract: access token and user are always
// written together, and all keys are cleared together.
type credentials struct {
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token,omitempty"`
	User         domain.UserProfile `json:"user"`
}

// Store defines the durable storage interface for session credentials.
type Store interface {
	// Read loads the persisted credentials.
	// Returns ErrNoSession when nothing is stored and ErrCredentialsCorrupted
	// when the file exists but cannot be parsed.
	Read() (token, refreshToken string, user domain.UserProfile, err error)

	// Write persists the access token, refresh token and user record together.
	// The write is atomic: a reader never observes a token without its user.
	Write(token, refreshToken string, user domain.UserProfile) error

	// Clear removes all persisted credentials. Idempotent: clearing an empty
	// store is a no-op, never an error.
	Clear() error
}

// FileStore implements Store using a JSON file in the TaskPilot home directory.
type FileStore struct {
	home string // Usually ~/.taskpilot
}

// NewFileStore creates a new FileStore rooted at the given home directory.
// If home is empty, uses the default ~/.taskpilot directory.
func NewFileStore(home string) (*FileStore, error) {
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		home = filepath.Join(userHome, constants.TaskPilotHome)
	}
	return &FileStore{home: home}, nil
}

// credentialsPath returns the path of the credentials file.
func (s *FileStore) credentialsPath() string {
	return filepath.Join(s.home, constants.CredentialsFileName)
}

// Read loads the persisted credentials from disk.
func (s *FileStore) Read() (string, string, domain.UserProfile, error) {
	data, err := os.ReadFile(s.credentialsPath()) //#nosec G304 -- path is constructed from trusted base
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", nil, taskpiloterrors.ErrNoSession
		}
		return "", "", nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", "", nil, fmt.Errorf("%w: %s", taskpiloterrors.ErrCredentialsCorrupted, err)
	}

	return creds.AccessToken, creds.RefreshToken, creds.User, nil
}

// Write persists the credentials atomically: the payload is staged to a
// temporary file in the same directory and moved into place with a single
// rename, so the token and user record can never be observed independently.
func (s *FileStore) Write(token, refreshToken string, user domain.UserProfile) error {
	if err := os.MkdirAll(s.home, dirPerm); err != nil {
		return fmt.Errorf("failed to create taskpilot home: %w", err)
	}

	data, err := json.MarshalIndent(credentials{
		AccessToken:  token,
		RefreshToken: refreshToken,
		User:         user,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	return atomicWrite(s.credentialsPath(), data)
}

// Clear removes the credentials file. Missing file is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.credentialsPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// atomicWrite writes data to path via a temp file and rename.
// The rename is atomic on POSIX filesystems within the same directory.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".credentials-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// Restrict permissions before writing any secret material.
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set credentials permissions: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close credentials file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace credentials file: %w", err)
	}
	return nil
}
