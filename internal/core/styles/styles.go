// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// Default is the tokyo-night palette used across the application.
var Default = Palette{
	Primary:    lipgloss.Color("#7aa2f7"),
	Secondary:  lipgloss.Color("#7dcfff"),
	Foreground: lipgloss.Color("#c0caf5"),
	Muted:      lipgloss.Color("#565f89"),
	Background: lipgloss.Color("#1a1b26"),
	Surface:    lipgloss.Color("#3b4261"),
	Success:    lipgloss.Color("#9ece6a"),
	Warning:    lipgloss.Color("#e0af68"),
	Error:      lipgloss.Color("#f7768e"),
}

// Shared styles for the edit screen and modals.
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Default.Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(Default.Muted)

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Default.Secondary)

	// Cursor marks the selected cell of the table.
	Cursor = lipgloss.NewStyle().
		Foreground(Default.Background).
		Background(Default.Primary).
		Bold(true)

	// EditedCell marks a cell holding an unsaved edit.
	EditedCell = lipgloss.NewStyle().
			Foreground(Default.Warning).
			Bold(true)

	// ReadonlyCell dims primary-key and other non-editable columns.
	ReadonlyCell = lipgloss.NewStyle().
			Foreground(Default.Muted)

	StatusBar = lipgloss.NewStyle().
			Foreground(Default.Foreground).
			Background(Default.Surface)

	ErrorText = lipgloss.NewStyle().
			Foreground(Default.Error)

	SuccessText = lipgloss.NewStyle().
			Foreground(Default.Success)

	ModalBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Default.Primary).
			Padding(1, 2)

	HelpKey = lipgloss.NewStyle().
		Foreground(Default.Secondary)

	HelpText = lipgloss.NewStyle().
			Foreground(Default.Muted)
)
