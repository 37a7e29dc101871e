package cli

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

// Палитра совпадает с CSS дашборда
var (
	colorAccent      = lipgloss.Color("#7C3AED")
	colorSuccess     = lipgloss.Color("#10B981")
	colorWarning     = lipgloss.Color("#F59E0B")
	colorDestructive = lipgloss.Color("#EF4444")
	colorMuted       = lipgloss.Color("#9CA3AF")
	colorBorder      = lipgloss.Color("#4B5563")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headingStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	activeStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle    = lipgloss.NewStyle().Foreground(colorDestructive)
	sidebarStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)

func toneStyle(tone string) lipgloss.Style {
	switch tone {
	case "success":
		return lipgloss.NewStyle().Foreground(colorSuccess)
	case "warning":
		return lipgloss.NewStyle().Foreground(colorWarning)
	case "destructive":
		return lipgloss.NewStyle().Foreground(colorDestructive)
	case "accent":
		return lipgloss.NewStyle().Foreground(colorAccent)
	case "muted":
		return mutedStyle
	default:
		return lipgloss.NewStyle()
	}
}

func toned(text, tone string) string {
	return toneStyle(tone).Render(text)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}
