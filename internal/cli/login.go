package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
	"github.com/taskpilot/taskpilot/internal/tui"
)

// loginFlags holds the flags for the login command.
type loginFlags struct {
	email    string
	password string
	json     bool
}

// AddLoginCommand adds the login command to the root command.
func AddLoginCommand(root *cobra.Command) {
	root.AddCommand(newLoginCmd())
}

// newLoginCmd creates the login command.
func newLoginCmd() *cobra.Command {
	flags := &loginFlags{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Long: `Sign in to the TaskPilot server and save the session locally.

When called without flags, launches an interactive form.
When called with --email and --password, signs in directly (for scripts).

The session is stored in ~/.taskpilot/credentials.json and reused by all
subsequent commands until logout or expiry.

Examples:
  # Interactive mode
  taskpilot login

  # Flag mode (for scripts)
  taskpilot login --email dev@example.com --password secret`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runLogin(cmd.Context(), cmd.OutOrStdout(), app, flags, getOutputFormat(cmd, flags.json))
		},
	}

	cmd.Flags().StringVarP(&flags.email, "email", "e", "", "Account email address")
	cmd.Flags().StringVarP(&flags.password, "password", "p", "", "Account password")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output signed-in profile as JSON")

	return cmd
}

// runLogin executes the login command.
func runLogin(ctx context.Context, w io.Writer, app *App, flags *loginFlags, format string) error {
	out := tui.NewOutput(w, format)

	email, password := flags.email, flags.password
	if email == "" && password == "" {
		var err error
		email, password, err = promptCredentials()
		if err != nil {
			return err
		}
	}

	user, err := app.Auth.Login(ctx, email, password)
	if err != nil {
		out.Error(err)
		if action := taskpiloterrors.Actionable(err); action != "" {
			out.Info("  " + action)
		}
		return err
	}

	if format == OutputJSON {
		return out.JSON(user)
	}

	name := user.Name()
	if name == "" {
		name = user.Email()
	}
	out.Success(fmt.Sprintf("Signed in as %s", name))
	return nil
}

// promptCredentials runs the interactive form for login.
func promptCredentials() (email, password string, err error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&email).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("%w: email", taskpiloterrors.ErrEmptyValue)
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("%w: password", taskpiloterrors.ErrEmptyValue)
					}
					return nil
				}),
		),
	).WithTheme(tui.FormTheme())

	if err := form.Run(); err != nil {
		return "", "", fmt.Errorf("%w: %s", taskpiloterrors.ErrOperationCanceled, err)
	}
	return email, password, nil
}
