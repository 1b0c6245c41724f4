package output

import "github.com/charmbracelet/lipgloss"

// Color palette used across the CLI.
var (
	ColorCyan    = lipgloss.Color("14")
	ColorYellow  = lipgloss.Color("220")
	ColorDimGray = lipgloss.Color("240")
)

var (
	// StyleNoun styles template names and package ids.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleNotice styles the update-available notice.
	StyleNotice = lipgloss.NewStyle().Foreground(ColorYellow)

	// StyleDim styles structural chrome.
	StyleDim = lipgloss.NewStyle().Faint(true)
)
