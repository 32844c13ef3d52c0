// Package styles renders console headings and status lines.
package styles

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

type Style string

const (
	Default Style = "default"
	Error   Style = "error"
	Success Style = "success"
	Info    Style = "info"
)

var (
	defaultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F45E6E"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6EF4A1"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6EC4F4"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
)

func (s Style) render(text string) string {
	switch s {
	case Error:
		return errorStyle.Render(text)
	case Success:
		return successStyle.Render(text)
	case Info:
		return infoStyle.Render(text)
	default:
		return defaultStyle.Render(text)
	}
}

func Sprintf(s Style, format string, a ...any) string {
	return s.render(fmt.Sprintf(format, a...))
}

func Fprintf(w io.Writer, s Style, format string, a ...any) {
	fmt.Fprintln(w, Sprintf(s, format, a...))
}

// Heading writes a bold section title framed as "=== title ===".
func Heading(w io.Writer, title string) {
	fmt.Fprintln(w, headingStyle.Render("=== "+title+" ==="))
}
