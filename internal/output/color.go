// Package output provides styled terminal rendering helpers for healthwatch.
package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color constants for consistent styling across the CLI.
var (
	// ColorPrimary is used for headers and the user's messages.
	ColorPrimary = lipgloss.Color("#64b5f6")

	// ColorAssistant is used for assistant replies.
	ColorAssistant = lipgloss.Color("#66bb6a")

	// ColorError is used for failures.
	ColorError = lipgloss.Color("#ef5350")

	// ColorMuted is used for secondary text and borders.
	ColorMuted = lipgloss.Color("#888888")
)

// Styles provides reusable lipgloss styles.
var (
	// StyleHeader is used for section headers.
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	// StyleUser labels the user's own messages.
	StyleUser = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	// StyleAssistant labels assistant replies.
	StyleAssistant = lipgloss.NewStyle().
			Foreground(ColorAssistant).
			Bold(true)

	// StyleError is used for error text.
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	// StyleMuted is used for de-emphasized text.
	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// SetNoColor disables color output globally by replacing every style with
// an unstyled renderer.
func SetNoColor(disabled bool) {
	if disabled {
		plain := lipgloss.NewStyle()
		StyleHeader = plain
		StyleUser = plain
		StyleAssistant = plain
		StyleError = plain
		StyleMuted = plain
	}
}

// ColorEnabled decides whether f should receive styled output: color must be
// enabled in config, not disabled by flag, and f must be a terminal.
func ColorEnabled(f *os.File, configured, disabledByFlag bool) bool {
	if !configured || disabledByFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
