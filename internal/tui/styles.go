package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	colorError  = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F6D"}

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.BorderForeground(colorAccent)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)
)

// tagColors maps the server's color classes to terminal colors.
var tagColors = map[string]lipgloss.Color{
	"bg-blue-500":   lipgloss.Color("33"),
	"bg-red-500":    lipgloss.Color("196"),
	"bg-green-500":  lipgloss.Color("34"),
	"bg-yellow-500": lipgloss.Color("220"),
	"bg-purple-500": lipgloss.Color("135"),
	"bg-pink-500":   lipgloss.Color("205"),
	"bg-gray-300":   lipgloss.Color("250"),
}

func tagStyle(color string) lipgloss.Style {
	c, ok := tagColors[color]
	if !ok {
		c = lipgloss.Color("244")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(c).Padding(0, 1)
}
