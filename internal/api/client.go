// Package api provides the request dispatcher for the TaskPilot backend.
//
// The dispatcher builds one HTTP request per call, attaches bearer
// credentials outside the auth endpoints, and classifies every outcome into
// the sentinel taxonomy in internal/errors: ErrSessionExpired (401 outside
// login), ErrAPI (any other non-2xx, carrying the server message when one is
// present), and ErrNetwork (no response received). There is no retry, no
// backoff, no request queuing and no caching: every call is fire-once and
// retry policy belongs to the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/internal/constants"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
	"github.com/taskpilot/taskpilot/internal/session"
)

// HTTPClient abstracts HTTP operations for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options is the per-request options bag. The zero value is a GET with no
// body and no extra headers.
type Options struct {
	// Method defaults to GET when empty.
	Method string

	// Body is marshaled to JSON when non-nil.
	Body any

	// Headers are merged over the defaults; Content-Type is always set.
	Headers map[string]string

	// Query is appended to the endpoint's query string.
	Query url.Values
}

// Client dispatches requests against the configured base URL.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	session    *session.Session
	logger     zerolog.Logger
}

// New creates a Client using the configured base URL and transport timeout.
// The transport timeout is the only bound on a request's lifetime; the
// dispatcher itself never enforces one.
func New(cfg *config.Config, sess *session.Session, logger zerolog.Logger) *Client {
	timeout := cfg.API.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		session: sess,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// NewWithHTTP creates a Client with a custom HTTP client (for testing).
func NewWithHTTP(baseURL string, httpClient HTTPClient, sess *session.Session, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		session:    sess,
		logger:     logger.With().Str("component", "api").Logger(),
	}
}

// Do dispatches one request to <base URL><endpoint> and classifies the outcome.
//
// The returned Envelope is non-nil whenever a response body was decoded,
// including API failures, so callers can surface the server-supplied message.
// The error is nil only for successful calls; callers branch with errors.Is
// against the sentinels in internal/errors.
func (c *Client) Do(ctx context.Context, endpoint string, opts Options) (*Envelope, error) {
	req, err := c.buildRequest(ctx, endpoint, opts)
	if err != nil {
		return nil, err
	}

	requestID := req.Header.Get("X-Request-ID")
	c.logger.Debug().
		Str("method", req.Method).
		Str("endpoint", endpoint).
		Str("request_id", requestID).
		Msg("dispatching request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// No response received at all: the one failure mode callers must
		// still treat as catastrophic rather than a result envelope.
		c.logger.Debug().Err(err).Str("request_id", requestID).Msg("transport failure")
		return nil, fmt.Errorf("%w: %v", taskpiloterrors.ErrNetwork, err) //nolint:errorlint // intentional hybrid wrap
	}
	defer resp.Body.Close() //nolint:errcheck // HTTP response body close

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Msg("response received")

	return c.classify(resp, endpoint)
}

// buildRequest assembles the outgoing request: JSON body, default headers,
// bearer credentials outside the auth endpoints, and a correlation ID.
func (c *Client) buildRequest(ctx context.Context, endpoint string, opts Options) (*http.Request, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + endpoint
	if len(opts.Query) > 0 {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		target += sep + opts.Query.Encode()
	}

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, taskpiloterrors.Wrap(err, "failed to encode request body")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, taskpiloterrors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	// Auth endpoints never receive credentials: a stale token must not be
	// sent during login or registration.
	if token := c.session.Token(); token != "" && !strings.HasPrefix(endpoint, constants.AuthPathPrefix) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// classify turns an HTTP response into an Envelope or a sentinel error.
func (c *Client) classify(resp *http.Response, endpoint string) (*Envelope, error) {
	// 401 anywhere but login means the session is gone. Clearing state and
	// notifying the UI happens exactly once, here; the body is irrelevant.
	if resp.StatusCode == http.StatusUnauthorized && endpoint != constants.LoginPath {
		c.session.Expire()
		return nil, fmt.Errorf("%w: please login again", taskpiloterrors.ErrSessionExpired)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", taskpiloterrors.ErrAPI, err) //nolint:errorlint // intentional hybrid wrap
	}

	env, decodeErr := decodeEnvelope(body, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := statusMessage(env, resp.StatusCode)
		if env == nil {
			env = &Envelope{Success: false, Message: msg}
		}
		return env, fmt.Errorf("%w: %s", taskpiloterrors.ErrAPI, msg)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %s", taskpiloterrors.ErrAPI, decodeErr)
	}
	return env, nil
}

// statusMessage picks the server-supplied message when present, else a
// generic status-derived one.
func statusMessage(env *Envelope, status int) string {
	if env != nil && env.Message != "" {
		return env.Message
	}
	return fmt.Sprintf("request failed with status %d", status)
}
