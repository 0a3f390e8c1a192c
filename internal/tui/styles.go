package tui

import "github.com/charmbracelet/lipgloss"

var (
	LogoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(8)

	ClockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	ExpiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	TypedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	CursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	HelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	FrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2)
)
