package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#8BC34A")
	muted   = lipgloss.Color("#7a8594")
	warning = lipgloss.Color("#FFC107")
	danger  = lipgloss.Color("#e53935")
)

type styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Derived  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Enabled  lipgloss.Style
	Disabled lipgloss.Style
	Result   lipgloss.Style
	Help     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:    lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Label:    lipgloss.NewStyle().Width(26),
		Focused:  lipgloss.NewStyle().Width(26).Foreground(accent).Bold(true),
		Derived:  lipgloss.NewStyle().Foreground(muted),
		Warning:  lipgloss.NewStyle().Foreground(warning),
		Error:    lipgloss.NewStyle().Foreground(danger),
		Enabled:  lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(lipgloss.Color("#101F38")).Background(accent),
		Disabled: lipgloss.NewStyle().Padding(0, 2).Foreground(muted).Strikethrough(true),
		Result:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		Help:     lipgloss.NewStyle().Foreground(muted).MarginTop(1),
	}
}
