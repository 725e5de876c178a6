package tui

import "github.com/charmbracelet/lipgloss"

var (
	PrimaryColor   = lipgloss.Color("#2D5016")
	SecondaryColor = lipgloss.Color("#9CAF88")
	AccentColor    = lipgloss.Color("#EAB308")
	SuccessColor   = lipgloss.Color("#22C55E")
	ErrorColor     = lipgloss.Color("#EF4444")
	MutedColor     = lipgloss.Color("#6B7280")
	TextColor      = lipgloss.Color("#F9FAFB")

	Muted = lipgloss.NewStyle().Foreground(MutedColor)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor).
		Padding(0, 1)

	FilterLabel = lipgloss.NewStyle().Foreground(MutedColor)
	FilterValue = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)

	StatusBar = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	CardBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SecondaryColor).
			Padding(0, 1)

	FormBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(AccentColor).
			Padding(0, 1)

	StatLabel = lipgloss.NewStyle().Foreground(MutedColor)

	StatusSuccess = lipgloss.NewStyle().Foreground(SuccessColor)
	StatusError   = lipgloss.NewStyle().Foreground(ErrorColor)
	StatusPending = lipgloss.NewStyle().Foreground(AccentColor)

	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(SecondaryColor)

	TableSelected = lipgloss.NewStyle().
			Background(PrimaryColor).
			Foreground(TextColor)

	Banner = lipgloss.NewStyle().
		Bold(true).
		Foreground(ErrorColor).
		Padding(0, 1)

	Notification = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Padding(0, 1)
)
