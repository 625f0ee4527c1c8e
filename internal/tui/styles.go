// Package tui is the interactive package browser behind "apttool browse".
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPrimary   = lipgloss.Color("#A80030") // Debian red
	ColorSecondary = lipgloss.Color("#06B6D4")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorText      = lipgloss.Color("#F3F4F6")
	ColorBgAlt     = lipgloss.Color("#374151")
)

// Styles contains all the lipgloss styles used in the TUI
type Styles struct {
	Header lipgloss.Style
	Footer lipgloss.Style
	Status lipgloss.Style

	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Description lipgloss.Style

	Row         lipgloss.Style
	RowSelected lipgloss.Style

	MarkerInstalled lipgloss.Style
	MarkerAvailable lipgloss.Style
	PackageName     lipgloss.Style
	PackageVersion  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style

	InputPrompt lipgloss.Style
	HelpKey     lipgloss.Style
	HelpDesc    lipgloss.Style
	Spinner     lipgloss.Style
}

// DefaultStyles returns the default style configuration
func DefaultStyles() *Styles {
	s := &Styles{}

	s.Header = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorPrimary).
		Padding(0, 1).
		Bold(true)

	s.Footer = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Background(ColorBgAlt).
		Padding(0, 1)

	s.Status = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Padding(0, 1)

	s.Title = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)

	s.Subtitle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	s.Description = lipgloss.NewStyle().
		Foreground(ColorMuted)

	s.Row = lipgloss.NewStyle().
		PaddingLeft(2)

	s.RowSelected = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	s.MarkerInstalled = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)

	s.MarkerAvailable = lipgloss.NewStyle().
		Foreground(ColorMuted)

	s.PackageName = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)

	s.PackageVersion = lipgloss.NewStyle().
		Foreground(ColorSecondary)

	s.Success = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)

	s.Error = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)

	s.InputPrompt = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	s.HelpKey = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	s.HelpDesc = lipgloss.NewStyle().
		Foreground(ColorMuted)

	s.Spinner = lipgloss.NewStyle().
		Foreground(ColorPrimary)

	return s
}
