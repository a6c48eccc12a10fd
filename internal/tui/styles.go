// Package tui provides terminal output components for TaskPilot.
//
// This package provides a centralized style system using Lip Gloss for
// consistent output styling. All colors use AdaptiveColor for light/dark
// terminal support. Status displays keep triple redundancy: icon + color +
// text, so meaning survives NO_COLOR terminals.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/taskpilot/taskpilot/internal/constants"
)

//nolint:gochecknoglobals // Intentional package-level constants for styling API
var (
	// ColorPrimary is blue, used for headers and primary values.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for completed tasks and success messages.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for in-progress tasks and warnings.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for errors and overdue tasks.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for pending tasks and secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting to text.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleHeader renders section headers.
	StyleHeader = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	// StyleError renders error messages.
	StyleError = lipgloss.NewStyle().Foreground(ColorError)

	// StyleSuccess renders success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)

	// StyleWarning renders warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)

	// StyleMuted renders secondary text.
	StyleMuted = lipgloss.NewStyle().Foreground(ColorMuted)
)

// statusStyles maps task statuses to their display styles.
//
//nolint:gochecknoglobals // Pre-built style mapping
var statusStyles = map[constants.TaskStatus]lipgloss.Style{
	constants.TaskStatusPending:    lipgloss.NewStyle().Foreground(ColorMuted),
	constants.TaskStatusInProgress: lipgloss.NewStyle().Foreground(ColorWarning),
	constants.TaskStatusCompleted:  lipgloss.NewStyle().Foreground(ColorSuccess),
}

// statusIcons maps task statuses to their icons.
//
//nolint:gochecknoglobals // Pre-built icon mapping
var statusIcons = map[constants.TaskStatus]string{
	constants.TaskStatusPending:    "○",
	constants.TaskStatusInProgress: "◐",
	constants.TaskStatusCompleted:  "●",
}

// TaskStatusLabel renders a styled icon + text label for a task status.
func TaskStatusLabel(status constants.TaskStatus) string {
	icon, ok := statusIcons[status]
	if !ok {
		icon = "?"
	}
	style, ok := statusStyles[status]
	if !ok {
		style = StyleMuted
	}
	return style.Render(icon + " " + string(status))
}

// CheckNoColor disables color output when the NO_COLOR environment variable
// is set or TERM is dumb. Call at the start of commands that render output.
func CheckNoColor() {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
