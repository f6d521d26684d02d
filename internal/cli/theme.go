package cli

import "github.com/charmbracelet/lipgloss"

type uiTheme struct {
	title     lipgloss.Style
	section   lipgloss.Style
	label     lipgloss.Style
	muted     lipgloss.Style
	panel     lipgloss.Style
	focused   lipgloss.Style
	roleOn    lipgloss.Style
	roleOff   lipgloss.Style
	status    lipgloss.Style
	errStatus lipgloss.Style
	verdict   map[string]lipgloss.Style
}

func newTheme() uiTheme {
	cyan := lipgloss.Color("#22d3ee")
	green := lipgloss.Color("#34d399")
	amber := lipgloss.Color("#fbbf24")
	red := lipgloss.Color("#f87171")
	text := lipgloss.Color("#e5e7eb")
	muted := lipgloss.Color("#9ca3af")

	return uiTheme{
		title:   lipgloss.NewStyle().Foreground(cyan).Bold(true),
		section: lipgloss.NewStyle().Foreground(cyan).Bold(true).MarginTop(1),
		label:   lipgloss.NewStyle().Foreground(text).Bold(true),
		muted:   lipgloss.NewStyle().Foreground(muted),
		panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		focused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(cyan).
			Padding(0, 1),
		roleOn:    lipgloss.NewStyle().Foreground(lipgloss.Color("#0b1120")).Background(cyan).Padding(0, 1),
		roleOff:   lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		status:    lipgloss.NewStyle().Foreground(cyan),
		errStatus: lipgloss.NewStyle().Foreground(red).Bold(true),
		verdict: map[string]lipgloss.Style{
			"Proceed":                 lipgloss.NewStyle().Foreground(green).Bold(true),
			"Proceed With Conditions": lipgloss.NewStyle().Foreground(amber).Bold(true),
			"Do Not Proceed":          lipgloss.NewStyle().Foreground(red).Bold(true),
		},
	}
}

func (t uiTheme) verdictStyle(v string) lipgloss.Style {
	if s, ok := t.verdict[v]; ok {
		return s
	}
	return t.label
}
