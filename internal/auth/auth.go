// Package auth provides the authentication adapters: registration, login,
// logout and profile operations against the backend's /auth endpoints.
//
// Login (and registration's auto-login) is the only adapter permitted to
// mutate session state directly; every other adapter in the client is a pure
// request/response translator.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
	"github.com/taskpilot/taskpilot/internal/session"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// emailPattern is the shape check applied before any network call.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Dispatcher is the request dispatch interface the adapters depend on.
// Satisfied by api.Client; mocked in tests.
type Dispatcher interface {
	Do(ctx context.Context, endpoint string, opts api.Options) (*api.Envelope, error)
}

// Service bundles the auth adapters with their dependencies.
type Service struct {
	client  Dispatcher
	session *session.Session
	logger  zerolog.Logger
}

// NewService creates the auth adapter service.
func NewService(client Dispatcher, sess *session.Session, logger zerolog.Logger) *Service {
	return &Service{
		client:  client,
		session: sess,
		logger:  logger.With().Str("component", "auth").Logger(),
	}
}

// Register creates a new account and, on success, logs the new user in so
// the client moves straight to the authenticated state.
//
// Username is required explicitly and never defaulted.
func (s *Service) Register(ctx context.Context, reg domain.Registration, passwordConfirm string) (domain.UserProfile, error) {
	if err := validateRegistration(reg, passwordConfirm); err != nil {
		return nil, err
	}

	env, err := s.client.Do(ctx, "/auth/register", api.Options{
		Method: http.MethodPost,
		Body:   reg,
	})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", taskpiloterrors.ErrAPI, env.Message)
	}

	// Auto-login after registration.
	return s.Login(ctx, reg.Email, reg.Password)
}

// Login authenticates with email and password. On success the returned
// token and user record are stored in the session (memory plus durable
// storage, written together).
func (s *Service) Login(ctx context.Context, email, password string) (domain.UserProfile, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", taskpiloterrors.ErrValidation)
	}

	env, err := s.client.Do(ctx, "/auth/login", api.Options{
		Method: http.MethodPost,
		Body: map[string]string{
			"email":    email,
			"password": password,
		},
	})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", taskpiloterrors.ErrAPI, loginFailureMessage(env.Message))
	}

	var result domain.LoginResult
	if err := env.Decode(&result); err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response carried no access token", taskpiloterrors.ErrAPI)
	}

	if err := s.session.SetTokens(result.TokenPair, result.User); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", result.User.Username()).Msg("login successful")
	return result.User, nil
}

// Logout tells the backend to end the session and clears local state.
// The local session is cleared even when the remote call fails, so the user
// is never stuck looking authenticated after requesting logout.
func (s *Service) Logout(ctx context.Context) error {
	_, err := s.client.Do(ctx, "/auth/logout", api.Options{Method: http.MethodPost})
	if err != nil {
		s.logger.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
	}
	return s.session.Clear()
}

// Profile fetches the authenticated user's profile.
func (s *Service) Profile(ctx context.Context) (domain.UserProfile, error) {
	env, err := s.client.Do(ctx, "/auth/profile", api.Options{})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", taskpiloterrors.ErrAPI, env.Message)
	}

	var profile domain.UserProfile
	if err := env.Decode(&profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile sends profile changes and refreshes the cached user record
// on success.
func (s *Service) UpdateProfile(ctx context.Context, data domain.UserProfile) (domain.UserProfile, error) {
	env, err := s.client.Do(ctx, "/auth/profile", api.Options{
		Method: http.MethodPut,
		Body:   data,
	})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", taskpiloterrors.ErrAPI, env.Message)
	}

	var profile domain.UserProfile
	if err := env.Decode(&profile); err != nil {
		return nil, err
	}
	if err := s.session.UpdateUser(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ReloadProfile refreshes the cached profile at startup. A failure clears
// the session: a token the backend no longer honors is not kept around.
// No-op when unauthenticated.
func (s *Service) ReloadProfile(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		return nil
	}

	profile, err := s.Profile(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("profile reload failed, clearing session")
		if clearErr := s.session.Clear(); clearErr != nil {
			return clearErr
		}
		return err
	}

	return s.session.UpdateUser(profile)
}

// loginFailureMessage falls back to a credential hint when the backend
// supplied no message.
func loginFailureMessage(msg string) string {
	if msg == "" {
		return "login failed, check your credentials"
	}
	return msg
}

// validateRegistration applies the caller-side checks that never reach the
// network: required fields, password confirmation, length, email shape.
func validateRegistration(reg domain.Registration, passwordConfirm string) error {
	if reg.Username == "" {
		return fmt.Errorf("%w: username is required", taskpiloterrors.ErrValidation)
	}
	if reg.Name == "" {
		return fmt.Errorf("%w: name is required", taskpiloterrors.ErrValidation)
	}
	if reg.Password == "" {
		return fmt.Errorf("%w: password is required", taskpiloterrors.ErrValidation)
	}
	if reg.Password != passwordConfirm {
		return fmt.Errorf("%w: passwords do not match", taskpiloterrors.ErrValidation)
	}
	if len(reg.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", taskpiloterrors.ErrValidation, MinPasswordLength)
	}
	return validateEmail(reg.Email)
}

// validateEmail checks the email's shape.
func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", taskpiloterrors.ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: %q is not a valid email address", taskpiloterrors.ErrValidation, email)
	}
	return nil
}
