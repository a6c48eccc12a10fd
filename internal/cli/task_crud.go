package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskpilot/taskpilot/internal/domain"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
	"github.com/taskpilot/taskpilot/internal/tui"
)

// dueDateLayouts are the accepted input formats for --due flags.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

// taskAddFlags holds the flags for the task add command.
type taskAddFlags struct {
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

// newTaskAddCmd creates the task add command.
func newTaskAddCmd() *cobra.Command {
	flags := &taskAddFlags{}

	cmd := &cobra.Command{
		Use:     "add <title>",
		Aliases: []string{"create"},
		Short:   "Create a task",
		Long: `Create a task. Only the title is required; everything else gets a
sensible default (category Other, priority 3, impact 5, status pending,
complexity 3, one estimated hour, due today).

Examples:
  taskpilot task add "Ship quarterly report"
  taskpilot task add "Fix login bug" --category Work --priority 1 \
    --due 2026-09-15 --tags "bug,auth" --hours 4.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runTaskAdd(cmd.Context(), cmd.OutOrStdout(), app, args[0], flags, getOutputFormat(cmd, flags.json))
		},
	}

	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "Detailed description")
	cmd.Flags().StringVarP(&flags.category, "category", "c", "", "Category label")
	cmd.Flags().IntVarP(&flags.priority, "priority", "p", 0, "Priority (1-5, 1 is most urgent)")
	cmd.Flags().IntVarP(&flags.impact, "impact", "i", 0, "Impact (1-10)")
	cmd.Flags().StringVar(&flags.due, "due", "", "Due date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVarP(&flags.tags, "tags", "t", "", "Comma-separated tags")
	cmd.Flags().IntVar(&flags.complexity, "complexity", 0, "Complexity estimate (1-10)")
	cmd.Flags().Float64Var(&flags.hours, "hours", 0, "Estimated hours")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output created task as JSON")

	return cmd
}

// runTaskAdd executes the task add command.
func runTaskAdd(ctx context.Context, w io.Writer, app *App, title string, flags *taskAddFlags, format string) error {
	out := tui.NewOutput(w, format)

	draft := domain.TaskDraft{
		Title:          title,
		Description:    flags.description,
		Category:       flags.category,
		Priority:       flags.priority,
		Impact:         flags.impact,
		Tags:           splitTags(flags.tags),
		Complexity:     flags.complexity,
		EstimatedHours: flags.hours,
	}

	if flags.due != "" {
		due, err := parseDueDate(flags.due)
		if err != nil {
			out.Error(err)
			return err
		}
		draft.DueDate = &due
	}

	created, err := app.Tasks.Create(ctx, draft)
	if err != nil {
		out.Error(err)
		return err
	}

	if format == OutputJSON {
		return out.JSON(created)
	}

	out.Success(fmt.Sprintf("Created task %s: %s", shortID(created.ID), created.Title))
	return nil
}

// newTaskShowCmd creates the task show command.
func newTaskShowCmd() *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runTaskShow(cmd.Context(), cmd.OutOrStdout(), app, args[0], getOutputFormat(cmd, jsonFlag))
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Output task as JSON")

	return cmd
}

// runTaskShow executes the task show command.
func runTaskShow(ctx context.Context, w io.Writer, app *App, id string, format string) error {
	out := tui.NewOutput(w, format)

	t, err := app.Tasks.Get(ctx, id)
	if err != nil {
		out.Error(err)
		return err
	}

	if format == OutputJSON {
		return out.JSON(t)
	}

	displayTaskDetail(out, t)
	return nil
}

// displayTaskDetail prints one task's full record.
func displayTaskDetail(out tui.Output, t *domain.Task) {
	out.Info(tui.StyleBold.Render(t.Title))
	out.Info("  ID:         " + t.ID)
	out.Info("  Status:     " + tui.TaskStatusLabel(t.Status))
	out.Info(fmt.Sprintf("  Category:   %s", t.Category))
	out.Info(fmt.Sprintf("  Priority:   %d  Impact: %d  Complexity: %d", t.Priority, t.Impact, t.Complexity))
	out.Info(fmt.Sprintf("  Progress:   %d%%", t.Progress))
	out.Info(fmt.Sprintf("  Estimated:  %.1fh", t.EstimatedHours))
	if !t.DueDate.IsZero() {
		out.Info("  Due:        " + t.DueDate.Format("2006-01-02 15:04"))
	}
	if len(t.Tags) > 0 {
		out.Info("  Tags:       " + strings.Join(t.Tags, ", "))
	}
	if t.Description != "" {
		out.Info("")
		out.Info("  " + t.Description)
	}
	if t.AIInsights != nil {
		displayInsightsSummary(out, t.AIInsights)
	}
}

// displayInsightsSummary prints the optional AI insight fields that exist.
func displayInsightsSummary(out tui.Output, ai *domain.AIInsights) {
	out.Info("")
	out.Info(tui.StyleHeader.Render("  AI Insights"))
	if ai.ComplexityScore != nil {
		out.Info(fmt.Sprintf("  Complexity score: %.1f", *ai.ComplexityScore))
	}
	if ai.ConfidenceScore != nil {
		out.Info(fmt.Sprintf("  Confidence:       %.0f%%", *ai.ConfidenceScore*100))
	}
	if ai.EstimatedCompletionTime != nil {
		out.Info("  Est. completion:  " + *ai.EstimatedCompletionTime)
	}
	if ai.RecommendedApproach != nil {
		out.Info("  Approach:         " + *ai.RecommendedApproach)
	}
	for _, b := range ai.PotentialBlockers {
		out.Info("  Blocker:          " + b)
	}
	for _, r := range ai.SuggestedResources {
		out.Info("  Resource:         " + r)
	}
}

// newTaskRemoveCmd creates the task rm command.
func newTaskRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runTaskRemove(cmd.Context(), cmd.OutOrStdout(), app, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")

	return cmd
}

// runTaskRemove executes the task rm command.
func runTaskRemove(ctx context.Context, w io.Writer, app *App, id string, force bool) error {
	out := tui.NewTTYOutput(w)

	if !force {
		confirmed, err := confirmDeletion(fmt.Sprintf("Delete task %s?", id))
		if err != nil {
			return err
		}
		if !confirmed {
			out.Info("Aborted.")
			return nil
		}
	}

	if err := app.Tasks.Delete(ctx, id); err != nil {
		out.Error(err)
		return err
	}

	out.Success(fmt.Sprintf("Deleted task %s", id))
	return nil
}

// confirmDeletion asks an interactive yes/no question.
func confirmDeletion(title string) (bool, error) {
	confirmed := false
	if err := tui.ConfirmPrompt(title, &confirmed); err != nil {
		return false, fmt.Errorf("%w: %s", taskpiloterrors.ErrOperationCanceled, err)
	}
	return confirmed, nil
}

// parseDueDate accepts a date-only or full RFC3339 timestamp.
func parseDueDate(s string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: due date %q, want YYYY-MM-DD or RFC3339", taskpiloterrors.ErrValidation, s)
}

// splitTags parses a comma-separated tag list, dropping empty entries.
func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
