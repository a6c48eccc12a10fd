package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
	"github.com/taskpilot/taskpilot/internal/tui"
)

// AddProfileCommand adds the profile command group to the root command.
func AddProfileCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View or update your profile",
		Long:  `View the server-side profile of the signed-in user, or update its fields.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileUpdateCmd())

	root.AddCommand(cmd)
}

// newProfileShowCmd creates the profile show command.
func newProfileShowCmd() *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Fetch and display your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runProfileShow(cmd.Context(), cmd.OutOrStdout(), app, getOutputFormat(cmd, jsonFlag))
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Output profile as JSON")

	return cmd
}

// profileUpdateFlags holds the flags for profile update.
type profileUpdateFlags struct {
	name  string
	email string
	json  bool
}

// newProfileUpdateCmd creates the profile update command.
func newProfileUpdateCmd() *cobra.Command {
	flags := &profileUpdateFlags{}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		Long: `Update profile fields on the server. Only the provided flags are sent;
everything else is left untouched.

Examples:
  taskpilot profile update --name "New Name"
  taskpilot profile update --email new@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runProfileUpdate(cmd.Context(), cmd.OutOrStdout(), app, flags, getOutputFormat(cmd, flags.json))
		},
	}

	cmd.Flags().StringVar(&flags.name, "name", "", "New display name")
	cmd.Flags().StringVar(&flags.email, "email", "", "New email address")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output updated profile as JSON")

	return cmd
}

// runProfileShow executes the profile show command.
func runProfileShow(ctx context.Context, w io.Writer, app *App, format string) error {
	out := tui.NewOutput(w, format)

	profile, err := app.Auth.Profile(ctx)
	if err != nil {
		out.Error(err)
		return err
	}

	if format == OutputJSON {
		return out.JSON(profile)
	}

	displayProfile(out, profile)
	return nil
}

// runProfileUpdate executes the profile update command.
func runProfileUpdate(ctx context.Context, w io.Writer, app *App, flags *profileUpdateFlags, format string) error {
	out := tui.NewOutput(w, format)

	data := domain.UserProfile{}
	if flags.name != "" {
		data["name"] = flags.name
	}
	if flags.email != "" {
		data["email"] = flags.email
	}
	if len(data) == 0 {
		err := fmt.Errorf("%w: nothing to update, pass --name or --email", taskpiloterrors.ErrEmptyValue)
		out.Error(err)
		return err
	}

	profile, err := app.Auth.UpdateProfile(ctx, data)
	if err != nil {
		out.Error(err)
		return err
	}

	if format == OutputJSON {
		return out.JSON(profile)
	}

	out.Success("Profile updated.")
	displayProfile(out, profile)
	return nil
}

// displayProfile prints the profile's scalar fields in a stable order.
func displayProfile(out tui.Output, profile domain.UserProfile) {
	keys := make([]string, 0, len(profile))
	for k := range profile {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := profile[k].(type) {
		case string, float64, bool, nil:
			out.Info(fmt.Sprintf("  %s: %v", k, v))
		default:
			// Nested structures are skipped in text mode; use --json for
			// the full record.
		}
	}
}
