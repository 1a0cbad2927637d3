package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#2563EB") // blue
	Secondary = lipgloss.Color("#0EA5E9") // sky
	Success   = lipgloss.Color("#10B981") // green
	Warning   = lipgloss.Color("#F59E0B") // amber
	Danger    = lipgloss.Color("#EF4444") // red
	Muted     = lipgloss.Color("#6B7280") // gray
	Text      = lipgloss.Color("#E5E7EB") // light gray

	// Reusable styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			PaddingLeft(1).
			PaddingRight(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Muted)

	StatusBar = lipgloss.NewStyle().
			Foreground(Text).
			Background(lipgloss.Color("#1F2937")).
			PaddingLeft(1).
			PaddingRight(1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			PaddingLeft(1)

	PhaseActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Secondary)

	PhaseLabelStyle = lipgloss.NewStyle().
			Foreground(Muted)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Muted)

	CursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary)

	KeptStyle = lipgloss.NewStyle().
			Foreground(Text)

	DroppedStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Strikethrough(true)

	OkStyle = lipgloss.NewStyle().
		Foreground(Success)

	ErrStyle = lipgloss.NewStyle().
			Foreground(Danger)
)
