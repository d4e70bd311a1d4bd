package main

import (
	"github.com/charmbracelet/lipgloss"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	// FocusedLabelStyle marks the date input that receives keystrokes.
	FocusedLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("57"))

	// LabelStyle for date inputs without focus.
	LabelStyle = lipgloss.NewStyle()
)

// SeriesToggle renders a checkbox for one chart series.
func SeriesToggle(key, name string, on bool) string {
	mark := " "
	if on {
		mark = "x"
	}

	return "[" + mark + "] " + key + " " + name
}
