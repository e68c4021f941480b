package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle styles table headers and the progress title.
	HeaderStyle = lipgloss.NewStyle().Bold(true)
	// FaintStyle styles secondary text such as key hints.
	FaintStyle = lipgloss.NewStyle().Faint(true)
	// ErrorLineStyle styles stderr lines in the output tail.
	ErrorLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	blue   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	statusStyles = map[string]lipgloss.Style{
		// Success
		"succeeded":  green,
		"ok":         green,
		"registered": green,
		"created":    green,
		"updated":    green,
		"removed":    green,
		"unchanged":  green,
		"current":    green,

		// Active
		"launching": blue,
		"running":   blue,

		// Warning
		"absent":    yellow,
		"warning":   yellow,
		"stale":     yellow,
		"cancelled": yellow,

		// Error
		"failed":         red,
		"error":          red,
		"timed_out":      red,
		"tool_not_found": red,
		"invalid_input":  red,
		"missing":        red,

		"pending": lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
