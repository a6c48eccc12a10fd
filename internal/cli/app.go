package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/taskpilot/taskpilot/internal/analytics"
	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/internal/auth"
	"github.com/taskpilot/taskpilot/internal/clock"
	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/internal/session"
	"github.com/taskpilot/taskpilot/internal/task"
	"github.com/taskpilot/taskpilot/internal/tui"
)

// App bundles the services every command depends on. Commands receive an
// *App instead of constructing their own clients so tests can swap in mock
// dispatchers and in-memory stores.
type App struct {
	Config    *config.Config
	Session   *session.Session
	Client    *api.Client
	Auth      *auth.Service
	Tasks     *task.Service
	Analytics *analytics.Service
	Logger    zerolog.Logger
}

// newApp wires the full dependency graph: config, credential store, session,
// HTTP client, and the domain services. The session is restored from disk so
// a token saved by a previous invocation is immediately usable.
func newApp(ctx context.Context, logger zerolog.Logger) (*App, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	home, err := taskpilotHome()
	if err != nil {
		return nil, err
	}

	store, err := session.NewFileStore(home)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	sess := session.New(store, logger)
	sess.Initialize()
	sess.OnExpired(func() {
		fmt.Fprintln(os.Stderr, tui.StyleWarning.Render("Session expired. Run `taskpilot login` to sign in again."))
	})

	client := api.New(cfg, sess, logger)

	return &App{
		Config:    cfg,
		Session:   sess,
		Client:    client,
		Auth:      auth.NewService(client, sess, logger),
		Tasks:     task.NewService(client, sess, clock.RealClock{}, logger),
		Analytics: analytics.NewService(client, logger),
		Logger:    logger,
	}, nil
}
