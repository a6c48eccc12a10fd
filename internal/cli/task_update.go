package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/taskpilot/taskpilot/internal/constants"
	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
	"github.com/taskpilot/taskpilot/internal/tui"
)

// taskEditFlags holds the flags for the task edit command.
type taskEditFlags struct {
	title       string
	description string
	category    string
	priority    int
	impact      int
	due         string
	tags        string
	complexity  int
	hours       float64
	json        bool
}

// newTaskEditCmd creates the task edit command.
func newTaskEditCmd() *cobra.Command {
	flags := &taskEditFlags{}

	cmd := &cobra.Command{
		Use:     "edit <id>",
		Aliases: []string{"update"},
		Short:   "Update task fields",
		Long: `Update task fields. Only flags you pass are sent to the server;
everything else is left untouched. Passing an empty value clears the
field (for example --description "" removes the description).

Examples:
  taskpilot task edit 64f1c9 --title "New title"
  taskpilot task edit 64f1c9 --priority 1 --due 2026-09-15
  taskpilot task edit 64f1c9 --description ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := buildPatch(cmd, flags)
			if err != nil {
				return err
			}
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runTaskEdit(cmd.Context(), cmd.OutOrStdout(), app, args[0], patch, getOutputFormat(cmd, flags.json))
		},
	}

	cmd.Flags().StringVar(&flags.title, "title", "", "New title")
	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "New description (empty clears)")
	cmd.Flags().StringVarP(&flags.category, "category", "c", "", "New category")
	cmd.Flags().IntVarP(&flags.priority, "priority", "p", 0, "New priority (1-5)")
	cmd.Flags().IntVarP(&flags.impact, "impact", "i", 0, "New impact (1-10)")
	cmd.Flags().StringVar(&flags.due, "due", "", "New due date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVarP(&flags.tags, "tags", "t", "", "New comma-separated tags (empty clears)")
	cmd.Flags().IntVar(&flags.complexity, "complexity", 0, "New complexity estimate")
	cmd.Flags().Float64Var(&flags.hours, "hours", 0, "New estimated hours")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output updated task as JSON")

	return cmd
}

// buildPatch turns the changed flags into a patch. Flag change detection is
// what distinguishes "not passed" (field untouched) from "passed as zero"
// (field cleared).
func buildPatch(cmd *cobra.Command, flags *taskEditFlags) (*domain.TaskPatch, error) {
	patch := &domain.TaskPatch{}
	set := cmd.Flags().Changed

	if set("title") {
		patch.Title = &flags.title
	}
	if set("description") {
		patch.Description = &flags.description
	}
	if set("category") {
		patch.Category = &flags.category
	}
	if set("priority") {
		patch.Priority = &flags.priority
	}
	if set("impact") {
		patch.Impact = &flags.impact
	}
	if set("due") {
		due, err := parseDueDate(flags.due)
		if err != nil {
			return nil, err
		}
		patch.DueDate = &due
	}
	if set("tags") {
		tags := splitTags(flags.tags)
		if tags == nil {
			tags = []string{}
		}
		patch.Tags = &tags
	}
	if set("complexity") {
		patch.Complexity = &flags.complexity
	}
	if set("hours") {
		patch.EstimatedHours = &flags.hours
	}

	return patch, nil
}

// runTaskEdit executes the task edit command.
func runTaskEdit(ctx context.Context, w io.Writer, app *App, id string, patch *domain.TaskPatch, format string) error {
	out := tui.NewOutput(w, format)

	updated, err := app.Tasks.Update(ctx, id, patch)
	if err != nil {
		out.Error(err)
		return err
	}

	if format == OutputJSON {
		return out.JSON(updated)
	}

	out.Success(fmt.Sprintf("Updated task %s", shortID(updated.ID)))
	return nil
}

// newTaskDoneCmd creates the task done command.
func newTaskDoneCmd() *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runTaskStatus(cmd.Context(), cmd.OutOrStdout(), app, args[0],
				string(constants.TaskStatusCompleted), getOutputFormat(cmd, jsonFlag))
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Output updated task as JSON")

	return cmd
}

// newTaskStatusCmd creates the task status command.
func newTaskStatusCmd() *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set a task's status",
		Long:  `Set a task's status to pending, in-progress, or completed.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runTaskStatus(cmd.Context(), cmd.OutOrStdout(), app, args[0], args[1], getOutputFormat(cmd, jsonFlag))
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Output updated task as JSON")

	return cmd
}

// runTaskStatus executes the status transition commands (status, done).
func runTaskStatus(ctx context.Context, w io.Writer, app *App, id, status, format string) error {
	out := tui.NewOutput(w, format)

	s := constants.TaskStatus(status)
	if !constants.IsValidTaskStatus(s) {
		err := fmt.Errorf("%w: %q, want one of %v", taskpiloterrors.ErrInvalidStatus, status, constants.ValidTaskStatuses())
		out.Error(err)
		return err
	}

	updated, err := app.Tasks.UpdateStatus(ctx, id, s)
	if err != nil {
		out.Error(err)
		return err
	}

	if format == OutputJSON {
		return out.JSON(updated)
	}

	out.Success(fmt.Sprintf("Task %s is now %s", shortID(updated.ID), tui.TaskStatusLabel(updated.Status)))
	return nil
}

// newTaskProgressCmd creates the task progress command.
func newTaskProgressCmd() *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "progress <id> <percent>",
		Short: "Set a task's progress",
		Long:  `Set a task's progress percentage (0-100).`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var percent int
			if _, err := fmt.Sscanf(args[1], "%d", &percent); err != nil {
				return fmt.Errorf("%w: progress %q is not a number", taskpiloterrors.ErrValidation, args[1])
			}
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runTaskProgress(cmd.Context(), cmd.OutOrStdout(), app, args[0], percent, getOutputFormat(cmd, jsonFlag))
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Output updated task as JSON")

	return cmd
}

// runTaskProgress executes the task progress command.
func runTaskProgress(ctx context.Context, w io.Writer, app *App, id string, percent int, format string) error {
	out := tui.NewOutput(w, format)

	updated, err := app.Tasks.UpdateProgress(ctx, id, percent)
	if err != nil {
		out.Error(err)
		return err
	}

	if format == OutputJSON {
		return out.JSON(updated)
	}

	out.Success(fmt.Sprintf("Task %s progress set to %d%%", shortID(updated.ID), updated.Progress))
	return nil
}
