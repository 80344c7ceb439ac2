package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Printer formats numbers for a locale tag such as "en" or "de-DE". Unknown
// tags fall back to English.
type Printer struct {
	p *message.Printer
}

// NewPrinter returns a Printer for the given BCP 47 locale tag.
func NewPrinter(locale string) *Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Printer{p: message.NewPrinter(tag)}
}

// Count formats an integer with locale grouping, e.g. 12,345.
func (p *Printer) Count(n int) string {
	return p.p.Sprintf("%d", n)
}

// Value formats a measurement with at most one decimal place.
func (p *Printer) Value(v float64) string {
	if v == float64(int64(v)) {
		return p.p.Sprintf("%d", int64(v))
	}
	return p.p.Sprintf("%.1f", v)
}

// Section renders a styled section header.
func Section(title string) string {
	return StyleHeader.Render(title)
}

// Message renders one chat line with a speaker label. Continuation lines are
// indented under the text so multi-line replies stay readable.
func Message(speaker, text string, isUser bool) string {
	label := StyleAssistant.Render(speaker + ":")
	if isUser {
		label = StyleUser.Render(speaker + ":")
	}
	indent := strings.Repeat(" ", lipgloss.Width(speaker)+2)
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}
	return label + " " + strings.Join(lines, "\n")
}

// Status renders a muted progress line such as "gathering health data...".
func Status(text string) string {
	return StyleMuted.Render(text)
}

// Error renders an error line.
func Error(text string) string {
	return StyleError.Render(text)
}
