package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/taskpilot/taskpilot/internal/tui"
)

// AddLogoutCommand adds the logout command to the root command.
func AddLogoutCommand(root *cobra.Command) {
	root.AddCommand(newLogoutCmd())
}

// newLogoutCmd creates the logout command.
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the saved session",
		Long: `Sign out of the TaskPilot server and discard the saved session.

The local session is always cleared, even when the server cannot be
reached. Running logout while already signed out is a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runLogout(cmd.Context(), cmd.OutOrStdout(), app)
		},
	}
}

// runLogout executes the logout command.
func runLogout(ctx context.Context, w io.Writer, app *App) error {
	out := tui.NewTTYOutput(w)

	if !app.Session.IsAuthenticated() {
		out.Info("Not signed in.")
		return nil
	}

	// A remote failure is only logged; an error here means the local
	// credential file could not be removed.
	if err := app.Auth.Logout(ctx); err != nil {
		out.Error(err)
		return err
	}

	out.Success("Signed out.")
	return nil
}
