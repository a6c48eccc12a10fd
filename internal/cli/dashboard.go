package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/tui"
)

// dashboardFlags holds the flags for the dashboard command.
type dashboardFlags struct {
	period string
	json   bool
}

// dashboardData aggregates the sections fetched for the dashboard view.
type dashboardData struct {
	Stats           json.RawMessage        `json:"stats"`
	CompletionRate  json.RawMessage        `json:"completion_rate"`
	Categories      json.RawMessage        `json:"categories"`
	Recommendations domain.Recommendations `json:"recommendations"`
	FromFallback    bool                   `json:"recommendations_fallback"`
}

// AddDashboardCommand adds the dashboard command to the root command.
func AddDashboardCommand(root *cobra.Command) {
	flags := &dashboardFlags{}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show productivity dashboard",
		Long: `Show the productivity dashboard: aggregate statistics, completion
rate, category breakdown, and AI recommendations.

The sections are fetched concurrently. When the AI service is down the
recommendation section falls back to a built-in default set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runDashboard(cmd.Context(), cmd.OutOrStdout(), app, flags, getOutputFormat(cmd, flags.json))
		},
	}

	cmd.Flags().StringVar(&flags.period, "period", "week", "Completion rate period (day|week|month)")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output dashboard as JSON")

	root.AddCommand(cmd)
}

// runDashboard executes the dashboard command, fetching all sections
// concurrently.
func runDashboard(ctx context.Context, w io.Writer, app *App, flags *dashboardFlags, format string) error {
	out := tui.NewOutput(w, format)

	var data dashboardData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		data.Stats, err = app.Analytics.Dashboard(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.CompletionRate, err = app.Analytics.CompletionRate(gctx, flags.period)
		return err
	})
	g.Go(func() error {
		var err error
		data.Categories, err = app.Analytics.CategoryBreakdown(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.Recommendations, data.FromFallback, err = app.Analytics.Recommendations(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		out.Error(err)
		return err
	}

	if format == OutputJSON {
		return out.JSON(data)
	}

	displayDashboard(out, &data)
	return nil
}

// displayDashboard renders the dashboard sections as text.
func displayDashboard(out tui.Output, data *dashboardData) {
	out.Info(tui.StyleHeader.Render("Dashboard"))
	displayRawSection(out, "Statistics", data.Stats)
	displayRawSection(out, "Completion rate", data.CompletionRate)
	displayRawSection(out, "Categories", data.Categories)

	out.Info("")
	header := "Recommendations"
	if data.FromFallback {
		header += " (offline defaults)"
	}
	out.Info(tui.StyleHeader.Render(header))
	displayRecommendations(out, data.Recommendations)
}

// displayRawSection renders an opaque analytics payload. Flat objects become
// key/value lines; anything nested is printed as compact JSON.
func displayRawSection(out tui.Output, title string, raw json.RawMessage) {
	out.Info("")
	out.Info(tui.StyleHeader.Render(title))

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		out.Info("  " + string(raw))
		return
	}
	for k, v := range obj {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			s = string(v)
		}
		out.Info(fmt.Sprintf("  %s: %s", k, s))
	}
}

// displayRecommendations renders the recommendation sections.
func displayRecommendations(out tui.Output, recs domain.Recommendations) {
	out.Info(fmt.Sprintf("  Efficiency score: %d", recs.EfficiencyScore))
	displayBullets(out, "Focus areas", recs.FocusAreas)
	displayBullets(out, "Quick wins", recs.QuickWins)
	displayBullets(out, "Risk alerts", recs.RiskAlerts)
	displayBullets(out, "Optimization tips", recs.OptimizationTips)
}

// displayBullets prints a labeled bullet list, skipping empty lists.
func displayBullets(out tui.Output, label string, items []string) {
	if len(items) == 0 {
		return
	}
	out.Info("  " + label + ":")
	for _, item := range items {
		out.Info("    • " + item)
	}
}
