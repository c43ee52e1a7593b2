package components

import "github.com/charmbracelet/lipgloss"

// Fg renders s in the hex foreground color. An empty color leaves s as is.
func Fg(hex, s string) string {
	if hex == "" {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(s)
}

// Bold renders s in bold.
func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}

// BoldFg renders s in bold and the hex foreground color.
func BoldFg(hex, s string) string {
	st := lipgloss.NewStyle().Bold(true)
	if hex != "" {
		st = st.Foreground(lipgloss.Color(hex))
	}
	return st.Render(s)
}

// Dim renders s faint.
func Dim(s string) string {
	return lipgloss.NewStyle().Faint(true).Render(s)
}
