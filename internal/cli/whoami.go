package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
	"github.com/taskpilot/taskpilot/internal/tui"
)

// AddWhoamiCommand adds the whoami command to the root command.
func AddWhoamiCommand(root *cobra.Command) {
	root.AddCommand(newWhoamiCmd())
}

// newWhoamiCmd creates the whoami command.
func newWhoamiCmd() *cobra.Command {
	var (
		jsonFlag bool
		refresh  bool
	)

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Long: `Show the locally cached identity of the signed-in user without contacting the server.

With --refresh the profile is re-fetched first; a rejected refresh signs
you out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runWhoami(cmd.Context(), cmd.OutOrStdout(), app, refresh, getOutputFormat(cmd, jsonFlag))
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Output user record as JSON")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-fetch the profile from the server first")

	return cmd
}

// runWhoami executes the whoami command. Reads the cached session unless a
// refresh is requested.
func runWhoami(ctx context.Context, w io.Writer, app *App, refresh bool, format string) error {
	out := tui.NewOutput(w, format)

	if !app.Session.IsAuthenticated() {
		err := fmt.Errorf("%w: run `taskpilot login` first", taskpiloterrors.ErrNotAuthenticated)
		out.Error(err)
		return err
	}

	if refresh {
		if err := app.Auth.ReloadProfile(ctx); err != nil {
			out.Error(err)
			return err
		}
	}

	user := app.Session.CurrentUser()
	if format == OutputJSON {
		return out.JSON(user)
	}

	out.Info(tui.StyleBold.Render(user.Username()))
	if email := user.Email(); email != "" {
		out.Info("  " + email)
	}
	if name := user.Name(); name != "" {
		out.Info("  " + name)
	}
	return nil
}
