package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
	"github.com/taskpilot/taskpilot/internal/tui"
)

// newTaskBulkCmd creates the task bulk command group.
func newTaskBulkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Create or delete tasks in bulk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newTaskBulkCreateCmd())
	cmd.AddCommand(newTaskBulkDeleteCmd())

	return cmd
}

// bulkDraft is the JSON shape accepted by bulk create input files. Field
// names mirror the single-task flags; only title is required.
type bulkDraft struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Category       string   `json:"category,omitempty"`
	Priority       int      `json:"priority,omitempty"`
	Impact         int      `json:"impact,omitempty"`
	Due            string   `json:"due,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Complexity     int      `json:"complexity,omitempty"`
	EstimatedHours float64  `json:"estimated_hours,omitempty"`
}

// newTaskBulkCreateCmd creates the task bulk create command.
func newTaskBulkCreateCmd() *cobra.Command {
	var (
		file     string
		jsonFlag bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create multiple tasks from a JSON file",
		Long: `Create multiple tasks in one request from a JSON array.

The file (or stdin with --file -) holds an array of task objects; only
the title field is required, everything else gets the single-task
defaults.

Example file:
  [
    {"title": "Write release notes", "category": "Work", "priority": 2},
    {"title": "Update dependencies", "tags": ["maintenance"]}
  ]`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runTaskBulkCreate(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), app, file, getOutputFormat(cmd, jsonFlag))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with an array of tasks (- for stdin)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Output created tasks as JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// runTaskBulkCreate executes the task bulk create command.
func runTaskBulkCreate(ctx context.Context, w io.Writer, stdin io.Reader, app *App, file, format string) error {
	out := tui.NewOutput(w, format)

	drafts, err := readBulkDrafts(stdin, file)
	if err != nil {
		out.Error(err)
		return err
	}

	created, err := app.Tasks.BulkCreate(ctx, drafts)
	if err != nil {
		out.Error(err)
		return err
	}

	if format == OutputJSON {
		return out.JSON(created)
	}

	out.Success(fmt.Sprintf("Created %d tasks", len(created)))
	return nil
}

// readBulkDrafts reads and converts the bulk input file.
func readBulkDrafts(stdin io.Reader, file string) ([]domain.TaskDraft, error) {
	var r io.Reader = stdin
	if file != "-" {
		f, err := os.Open(file) //nolint:gosec // User-supplied input path
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var raw []bulkDraft
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: input is not a JSON task array: %s", taskpiloterrors.ErrValidation, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: input file holds no tasks", taskpiloterrors.ErrEmptyValue)
	}

	drafts := make([]domain.TaskDraft, 0, len(raw))
	for i, b := range raw {
		draft := domain.TaskDraft{
			Title:          b.Title,
			Description:    b.Description,
			Category:       b.Category,
			Priority:       b.Priority,
			Impact:         b.Impact,
			Tags:           b.Tags,
			Complexity:     b.Complexity,
			EstimatedHours: b.EstimatedHours,
		}
		if b.Due != "" {
			due, err := parseDueDate(b.Due)
			if err != nil {
				return nil, fmt.Errorf("task %d: %w", i, err)
			}
			draft.DueDate = &due
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// newTaskBulkDeleteCmd creates the task bulk delete command.
func newTaskBulkDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete multiple tasks in one request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runTaskBulkDelete(cmd.Context(), cmd.OutOrStdout(), app, args, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")

	return cmd
}

// runTaskBulkDelete executes the task bulk delete command.
func runTaskBulkDelete(ctx context.Context, w io.Writer, app *App, ids []string, force bool) error {
	out := tui.NewTTYOutput(w)

	if !force {
		confirmed, err := confirmDeletion(fmt.Sprintf("Delete %d tasks?", len(ids)))
		if err != nil {
			return err
		}
		if !confirmed {
			out.Info("Aborted.")
			return nil
		}
	}

	if err := app.Tasks.BulkDelete(ctx, ids); err != nil {
		out.Error(err)
		return err
	}

	out.Success(fmt.Sprintf("Deleted %d tasks", len(ids)))
	return nil
}
