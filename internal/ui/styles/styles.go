// Package styles provides shared lipgloss styles for terminal output.
//
// Colors come from the active [Theme]; call [Init] once after loading
// config. Rendering through output.Printer downsamples or strips colors to
// what the terminal supports.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colors of the active theme
var (
	Primary color.Color = DefaultTheme.Primary
	Success color.Color = DefaultTheme.Success
	Warning color.Color = DefaultTheme.Warning
	Error   color.Color = DefaultTheme.Error
	Muted   color.Color = DefaultTheme.Muted
)

// Common styles, rebuilt by Init
var (
	Bold = lipgloss.NewStyle().Bold(true)

	PrimaryStyle = lipgloss.NewStyle().Foreground(Primary)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
)

// applyTheme updates all global color and style variables
func applyTheme(t Theme) {
	Primary = t.Primary
	Success = t.Success
	Warning = t.Warning
	Error = t.Error
	Muted = t.Muted

	PrimaryStyle = lipgloss.NewStyle().Foreground(t.Primary)
	SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	WarningStyle = lipgloss.NewStyle().Foreground(t.Warning)
	ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
	MutedStyle = lipgloss.NewStyle().Foreground(t.Muted)
}
