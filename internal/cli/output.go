package cli

import "github.com/charmbracelet/lipgloss"

var (
	// headingStyle for agency and section headings
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	// labelStyle for metric labels
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	// valueStyle for metric values
	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// deltaStyle for change indicators
	deltaStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))
)
