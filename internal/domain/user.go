package domain

// UserProfile is the backend's user record. The session layer treats it as
// opaque: it is persisted and returned unmodified and is never inspected
// beyond existence checks. Identity fields (id, username, email, name) are
// accessed through the convenience getters, which tolerate absence.
type UserProfile map[string]any

// stringField returns the named field as a string, or empty when absent
// or not a string.
func (p UserProfile) stringField(key string) string {
	if p == nil {
		return ""
	}
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// Username returns the username field, or empty when absent.
func (p UserProfile) Username() string { return p.stringField("username") }

// Email returns the email field, or empty when absent.
func (p UserProfile) Email() string { return p.stringField("email") }

// Name returns the display name field, or empty when absent.
func (p UserProfile) Name() string { return p.stringField("name") }

// TokenPair carries access and refresh tokens returned by the backend.
type TokenPair struct {
	// AccessToken is the bearer token attached to authenticated requests.
	AccessToken string `json:"access_token"`

	// RefreshToken is persisted but never sent by this client; it exists so
	// a future refresh flow can use it. May be empty.
	RefreshToken string `json:"refresh_token,omitempty"`
}

// LoginResult is the payload returned by the backend on successful login.
type LoginResult struct {
	TokenPair

	// User is the authenticated user's profile.
	User UserProfile `json:"user"`
}

// Registration is the payload sent to the registration endpoint.
// Username is required explicitly; it is never defaulted.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}
