package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/tui"
)

var (
	glamourRenderer     *glamour.TermRenderer //nolint:gochecknoglobals // cached renderer for performance
	glamourRendererOnce sync.Once             //nolint:gochecknoglobals // sync.Once for renderer initialization
)

// getGlamourRenderer returns a cached glamour renderer for markdown rendering.
// Returns nil if renderer creation fails (falls back to plain text).
func getGlamourRenderer() *glamour.TermRenderer {
	glamourRendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err == nil {
			glamourRenderer = r
		}
	})
	return glamourRenderer
}

// insightsFlags holds the flags for the insights command.
type insightsFlags struct {
	optimization bool
	risk         bool
	json         bool
}

// AddInsightsCommand adds the insights command to the root command.
func AddInsightsCommand(root *cobra.Command) {
	flags := &insightsFlags{}

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show AI workflow insights",
		Long: `Show AI-generated workflow insights as rendered markdown.

By default shows recommendations; --optimization and --risk select the
other insight surfaces. When the AI service is unavailable the
recommendation view falls back to a built-in default set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runInsights(cmd.Context(), cmd.OutOrStdout(), app, flags, getOutputFormat(cmd, flags.json))
		},
	}

	cmd.Flags().BoolVar(&flags.optimization, "optimization", false, "Show workflow optimization tips")
	cmd.Flags().BoolVar(&flags.risk, "risk", false, "Show risk analysis")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output insights as JSON")
	cmd.MarkFlagsMutuallyExclusive("optimization", "risk")

	root.AddCommand(cmd)
}

// runInsights executes the insights command.
func runInsights(ctx context.Context, w io.Writer, app *App, flags *insightsFlags, format string) error {
	out := tui.NewOutput(w, format)

	switch {
	case flags.optimization:
		raw, err := app.Analytics.OptimizationTips(ctx)
		if err != nil {
			out.Error(err)
			return err
		}
		return renderRawInsights(w, out, "Workflow Optimization", raw, format)
	case flags.risk:
		raw, err := app.Analytics.RiskAnalysis(ctx)
		if err != nil {
			out.Error(err)
			return err
		}
		return renderRawInsights(w, out, "Risk Analysis", raw, format)
	default:
		recs, fromFallback, err := app.Analytics.Recommendations(ctx)
		if err != nil {
			out.Error(err)
			return err
		}
		if format == OutputJSON {
			return out.JSON(recs)
		}
		return renderMarkdown(w, recommendationsMarkdown(recs, fromFallback))
	}
}

// renderRawInsights renders an opaque insight payload.
func renderRawInsights(w io.Writer, out tui.Output, title string, raw json.RawMessage, format string) error {
	if format == OutputJSON {
		return out.JSON(raw)
	}
	return renderMarkdown(w, rawInsightsMarkdown(title, raw))
}

// recommendationsMarkdown builds the markdown document for the
// recommendation view.
func recommendationsMarkdown(recs domain.Recommendations, fromFallback bool) string {
	var b strings.Builder
	b.WriteString("# Recommendations\n\n")
	if fromFallback {
		b.WriteString("_AI service unavailable; showing default guidance._\n\n")
	}
	b.WriteString(fmt.Sprintf("**Efficiency score:** %d\n\n", recs.EfficiencyScore))

	writeMarkdownList(&b, "Focus areas", recs.FocusAreas)
	writeMarkdownList(&b, "Quick wins", recs.QuickWins)
	writeMarkdownList(&b, "Risk alerts", recs.RiskAlerts)
	writeMarkdownList(&b, "Optimization tips", recs.OptimizationTips)
	return b.String()
}

// writeMarkdownList appends a titled bullet list, skipping empty lists.
func writeMarkdownList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("## " + title + "\n\n")
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	b.WriteString("\n")
}

// rawInsightsMarkdown builds a markdown document from an opaque payload.
// String fields become sections; list fields become bullet lists.
func rawInsightsMarkdown(title string, raw json.RawMessage) string {
	var b strings.Builder
	b.WriteString("# " + title + "\n\n")

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		b.WriteString("```json\n" + string(raw) + "\n```\n")
		return b.String()
	}

	for k, v := range obj {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			b.WriteString("**" + k + ":** " + s + "\n\n")
			continue
		}
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			writeMarkdownList(&b, k, list)
			continue
		}
		b.WriteString("**" + k + ":** `" + string(v) + "`\n\n")
	}
	return b.String()
}

// renderMarkdown renders markdown with glamour, falling back to the raw
// source when no renderer is available.
func renderMarkdown(w io.Writer, md string) error {
	if r := getGlamourRenderer(); r != nil {
		if rendered, err := r.Render(md); err == nil {
			_, err = fmt.Fprint(w, rendered)
			return err
		}
	}
	_, err := fmt.Fprint(w, md)
	return err
}
