package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taskpilot/taskpilot/internal/constants"
	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
	"github.com/taskpilot/taskpilot/internal/tui"
)

// AddTaskCommand adds the task command group to the root command.
func AddTaskCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage tasks",
		Long:    `Create, list, update, and delete tasks.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskShowCmd())
	cmd.AddCommand(newTaskAddCmd())
	cmd.AddCommand(newTaskEditCmd())
	cmd.AddCommand(newTaskDoneCmd())
	cmd.AddCommand(newTaskStatusCmd())
	cmd.AddCommand(newTaskProgressCmd())
	cmd.AddCommand(newTaskRemoveCmd())
	cmd.AddCommand(newTaskBulkCmd())

	root.AddCommand(cmd)
}

// taskListFlags holds the flags for the task list command.
type taskListFlags struct {
	status   string
	category string
	priority int
	tag      string
	overdue  bool
	upcoming bool
	json     bool
}

// newTaskListCmd creates the task list command.
func newTaskListCmd() *cobra.Command {
	flags := &taskListFlags{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks, optionally filtered.

Examples:
  taskpilot task list
  taskpilot task list --status in-progress
  taskpilot task list --category Work --priority 5
  taskpilot task list --overdue`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runTaskList(cmd.Context(), cmd.OutOrStdout(), app, flags, getOutputFormat(cmd, flags.json))
		},
	}

	cmd.Flags().StringVarP(&flags.status, "status", "s", "", "Filter by status (pending|in-progress|completed)")
	cmd.Flags().StringVarP(&flags.category, "category", "c", "", "Filter by category")
	cmd.Flags().IntVarP(&flags.priority, "priority", "p", 0, "Filter by priority (1-5)")
	cmd.Flags().StringVarP(&flags.tag, "tag", "t", "", "Filter by tag")
	cmd.Flags().BoolVar(&flags.overdue, "overdue", false, "Show only overdue tasks")
	cmd.Flags().BoolVar(&flags.upcoming, "upcoming", false, "Show only upcoming tasks")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output tasks as JSON")
	cmd.MarkFlagsMutuallyExclusive("overdue", "upcoming")

	return cmd
}

// runTaskList executes the task list command.
func runTaskList(ctx context.Context, w io.Writer, app *App, flags *taskListFlags, format string) error {
	out := tui.NewOutput(w, format)

	if !app.Session.IsAuthenticated() {
		err := fmt.Errorf("%w: run `taskpilot login` first", taskpiloterrors.ErrNotAuthenticated)
		out.Error(err)
		return err
	}

	tasks, err := fetchTaskList(ctx, app, flags)
	if err != nil {
		out.Error(err)
		return err
	}

	if format == OutputJSON {
		return out.JSON(tasks)
	}

	if len(tasks) == 0 {
		out.Info("No tasks found.")
		return nil
	}

	displayTaskTable(w, tasks)
	return nil
}

// fetchTaskList picks the right adapter call for the given filters.
func fetchTaskList(ctx context.Context, app *App, flags *taskListFlags) ([]domain.Task, error) {
	switch {
	case flags.overdue:
		return app.Tasks.Overdue(ctx)
	case flags.upcoming:
		return app.Tasks.Upcoming(ctx)
	default:
		if flags.status != "" && !constants.IsValidTaskStatus(constants.TaskStatus(flags.status)) {
			return nil, fmt.Errorf("%w: %q, want one of %v",
				taskpiloterrors.ErrInvalidStatus, flags.status, constants.ValidTaskStatuses())
		}
		return app.Tasks.List(ctx, &domain.TaskFilters{
			Status:   constants.TaskStatus(flags.status),
			Category: flags.category,
			Priority: flags.priority,
			Tag:      flags.tag,
		})
	}
}

// displayTaskTable renders tasks in a fixed-width table.
func displayTaskTable(w io.Writer, tasks []domain.Task) {
	table := tui.NewTable(w, []tui.TableColumn{
		{Name: "ID", Width: 10},
		{Name: "TITLE", Width: 36},
		{Name: "CATEGORY", Width: 12},
		{Name: "PRI", Width: 3, Align: tui.AlignRight},
		{Name: "PROG", Width: 4, Align: tui.AlignRight},
		{Name: "DUE", Width: 10},
		{Name: "STATUS", Width: 14},
	})

	table.WriteHeader()
	for _, t := range tasks {
		due := ""
		if !t.DueDate.IsZero() {
			due = t.DueDate.Format("2006-01-02")
		}
		table.WriteRow(
			shortID(t.ID),
			t.Title,
			t.Category,
			strconv.Itoa(t.Priority),
			strconv.Itoa(t.Progress)+"%",
			due,
			tui.TaskStatusLabel(t.Status),
		)
	}
}

// shortID trims server identifiers for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
