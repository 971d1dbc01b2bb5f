package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, same palette the rest of our tooling uses.
const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext  lipgloss.Color = "#a6adc8"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorLavender)
	statusBarStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface0).Padding(0, 1)
	footerStyle    = lipgloss.NewStyle().Foreground(colorSubtext).Background(colorSurface1).Padding(0, 1)
	modalStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorLavender).Padding(0, 1)
	labelStyle     = lipgloss.NewStyle().Foreground(colorSubtext)

	severityStyles = map[string]lipgloss.Style{
		"low":      lipgloss.NewStyle().Foreground(colorGreen),
		"moderate": lipgloss.NewStyle().Foreground(colorYellow),
		"high":     lipgloss.NewStyle().Foreground(colorRed),
	}
	statusStyles = map[string]lipgloss.Style{
		"scheduled": lipgloss.NewStyle().Foreground(colorBlue),
		"completed": lipgloss.NewStyle().Foreground(colorGreen),
		"cancelled": lipgloss.NewStyle().Foreground(colorSubtext),
		"pending":   lipgloss.NewStyle().Foreground(colorPeach),
		"reviewed":  lipgloss.NewStyle().Foreground(colorGreen),
		"created":   lipgloss.NewStyle().Foreground(colorPeach),
		"live":      lipgloss.NewStyle().Foreground(colorTeal),
		"ended":     lipgloss.NewStyle().Foreground(colorSubtext),
	}
)

// styledStatus colors a status word, falling back to plain text for anything
// the palette doesn't know.
func styledStatus(s string) string {
	if st, ok := statusStyles[s]; ok {
		return st.Render(s)
	}
	return s
}

func styledSeverity(s string) string {
	if st, ok := severityStyles[s]; ok {
		return st.Render(s)
	}
	return s
}
