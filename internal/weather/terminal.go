package weather

import "github.com/charmbracelet/lipgloss"

var (
	panelBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5C56F0")).
			Padding(0, 1)
	panelTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	panelTemp   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7B801"))
	panelAdvice = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	panelMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
)

// RenderTerminal draws the panel as a plain rectangular box for terminals.
// width is the outer width of the box including its border.
func RenderTerminal(p Panel, width int) string {
	box := panelBox.Width(max(20, width-2))

	if !p.Available {
		return box.Render(panelMuted.Render(p.Message))
	}

	return box.Render(lipgloss.JoinVertical(lipgloss.Left,
		panelTitle.Render(p.Title),
		panelTemp.Render(p.Temperature),
		"",
		panelAdvice.Render(p.Advice),
	))
}
