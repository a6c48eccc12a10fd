package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taskpilot/taskpilot/internal/analytics"
	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
	"github.com/taskpilot/taskpilot/internal/tui"
)

// exportFlags holds the flags for the export command.
type exportFlags struct {
	format string
	file   string
}

// AddExportCommand adds the export command to the root command.
func AddExportCommand(root *cobra.Command) {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export your data",
		Long: `Export your tasks and analytics in JSON, CSV, or YAML.

The server produces JSON and CSV natively; YAML is converted locally
from the JSON payload.

Examples:
  taskpilot export
  taskpilot export --format csv --file tasks.csv
  taskpilot export --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), GetLogger())
			if err != nil {
				return err
			}
			return runExport(cmd.Context(), cmd.OutOrStdout(), app, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", analytics.FormatJSON, "Export format (json|csv|yaml)")
	cmd.Flags().StringVar(&flags.file, "file", "", "Write to a file instead of stdout")

	root.AddCommand(cmd)
}

// runExport executes the export command.
func runExport(ctx context.Context, w io.Writer, app *App, flags *exportFlags) error {
	out := tui.NewTTYOutput(w)

	// YAML is produced locally so the server only needs to know JSON and CSV.
	serverFormat := flags.format
	if serverFormat == analytics.FormatYAML {
		serverFormat = analytics.FormatJSON
	}

	raw, err := app.Analytics.Export(ctx, serverFormat)
	if err != nil {
		out.Error(err)
		return err
	}

	payload, err := convertExport(raw, flags.format)
	if err != nil {
		out.Error(err)
		return err
	}

	if flags.file == "" {
		_, err = w.Write(payload)
		return err
	}

	if err := os.WriteFile(flags.file, payload, 0o600); err != nil {
		err = fmt.Errorf("failed to write export file: %w", err)
		out.Error(err)
		return err
	}
	out.Success(fmt.Sprintf("Exported to %s", flags.file))
	return nil
}

// convertExport converts the server payload to the requested format.
func convertExport(raw json.RawMessage, format string) ([]byte, error) {
	switch format {
	case analytics.FormatJSON:
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: export payload is not valid JSON", taskpiloterrors.ErrAPI)
		}
		buf, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(buf, '\n'), nil
	case analytics.FormatCSV:
		// CSV arrives as a JSON string from the envelope; unwrap it when
		// possible, otherwise pass the body through.
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return []byte(s), nil
		}
		return raw, nil
	case analytics.FormatYAML:
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: export payload is not valid JSON", taskpiloterrors.ErrAPI)
		}
		return yaml.Marshal(v)
	default:
		return nil, fmt.Errorf("%w: %q, want one of json, csv, yaml", taskpiloterrors.ErrInvalidExportFormat, format)
	}
}
