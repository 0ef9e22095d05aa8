package cli

import "github.com/charmbracelet/lipgloss"

// Shared terminal styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F5FD7")).
			PaddingLeft(1).
			PaddingRight(1)

	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	p0Style = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	p1Style = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	p2Style = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	p3Style = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	badStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// priorityStyle picks the style for a priority label.
func priorityStyle(p string) lipgloss.Style {
	switch p {
	case "P0":
		return p0Style
	case "P1":
		return p1Style
	case "P2":
		return p2Style
	default:
		return p3Style
	}
}
