package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	noColor  bool
	title    lipgloss.Style
	muted    lipgloss.Style
	errorMsg lipgloss.Style
	thanks   lipgloss.Style
}

// NewStyles builds the palette. With noColor every style renders plain text.
func NewStyles(noColor bool) Styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return Styles{noColor: true, title: plain, muted: plain, errorMsg: plain, thanks: plain}
	}
	return Styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		errorMsg: lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		thanks: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("35")).
			Padding(0, 1),
	}
}

func (s Styles) Title(text string) string {
	return s.title.Render(text)
}

func (s Styles) Muted(text string) string {
	return s.muted.Render(text)
}

func (s Styles) Error(text string) string {
	if s.noColor {
		return "! " + text
	}
	return s.errorMsg.Render("! " + text)
}

// Thanks renders the closing panel.
func (s Styles) Thanks(title, body string) string {
	if s.noColor {
		return strings.Join([]string{title, body}, "\n")
	}
	return s.thanks.Render(lipgloss.JoinVertical(lipgloss.Left, s.title.Render(title), body))
}
