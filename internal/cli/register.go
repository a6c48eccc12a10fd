package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
	"github.com/taskpilot/taskpilot/internal/tui"
)

// registerFlags holds the flags for the register command.
type registerFlags struct {
	username string
	email    string
	name     string
	password string
	json     bool
}

// AddRegisterCommand adds the register command to the root command.
func AddRegisterCommand(root *cobra.Command) {
	root.AddCommand(newRegisterCmd())
}

// newRegisterCmd creates the register command.
func newRegisterCmd() *cobra.Command {
	flags := &registerFlags{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Long: `Create a new TaskPilot account and sign in immediately.

When called without flags, launches an interactive form. In flag mode the
password is confirmed against itself, so double-check your input.

Examples:
  # Interactive mode
  taskpilot register

  # Flag mode (for scripts)
  taskpilot register --username dev --email dev@example.com \
    --name "Dev Example" --password secret1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runRegister(cmd.Context(), cmd.OutOrStdout(), app, flags, getOutputFormat(cmd, flags.json))
		},
	}

	cmd.Flags().StringVarP(&flags.username, "username", "u", "", "Account username")
	cmd.Flags().StringVarP(&flags.email, "email", "e", "", "Account email address")
	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "Display name")
	cmd.Flags().StringVarP(&flags.password, "password", "p", "", "Account password")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output created profile as JSON")

	return cmd
}

// runRegister executes the register command.
func runRegister(ctx context.Context, w io.Writer, app *App, flags *registerFlags, format string) error {
	out := tui.NewOutput(w, format)

	reg := domain.Registration{
		Username: flags.username,
		Email:    flags.email,
		Name:     flags.name,
		Password: flags.password,
	}
	confirm := flags.password

	if reg.Username == "" && reg.Email == "" && reg.Password == "" {
		var err error
		reg, confirm, err = promptRegistration()
		if err != nil {
			return err
		}
	}

	user, err := app.Auth.Register(ctx, reg, confirm)
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

	out.Success(fmt.Sprintf("Account created for %s", reg.Email))
	out.Info("You are now signed in.")
	return nil
}

// promptRegistration runs the interactive form for registration.
func promptRegistration() (domain.Registration, string, error) {
	var reg domain.Registration
	var confirm string

	required := func(field string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%w: %s", taskpiloterrors.ErrEmptyValue, field)
			}
			return nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&reg.Username).
				Validate(required("username")),
			huh.NewInput().
				Title("Email").
				Value(&reg.Email).
				Validate(required("email")),
			huh.NewInput().
				Title("Display name").
				Value(&reg.Name).
				Validate(required("name")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				Description("At least 6 characters").
				EchoMode(huh.EchoModePassword).
				Value(&reg.Password).
				Validate(required("password")),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&confirm).
				Validate(required("password confirmation")),
		),
	).WithTheme(tui.FormTheme())

	if err := form.Run(); err != nil {
		return domain.Registration{}, "", fmt.Errorf("%w: %s", taskpiloterrors.ErrOperationCanceled, err)
	}
	return reg, confirm, nil
}
