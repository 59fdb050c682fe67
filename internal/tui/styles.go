package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by pages, modals and charts.
var (
	ColorNavy   = lipgloss.Color("#1B2A41")
	ColorWhite  = lipgloss.Color("#F5F5F5")
	ColorGray   = lipgloss.Color("244")
	ColorBlue   = lipgloss.Color("39")
	ColorGreen  = lipgloss.Color("#49E209")
	ColorOrange = lipgloss.Color("208")
	ColorRed    = lipgloss.Color("196")
	ColorRust   = lipgloss.Color("#C1440E") // Mars
)

var (
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray)

	chartTitleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorWhite)

	activeTabStyle = lipgloss.NewStyle().
			Background(ColorRust).
			Foreground(ColorWhite).
			Bold(true).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Padding(0, 1)

	errorBannerStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorRed).
				Foreground(ColorRed).
				Padding(1, 2)
)

// typeColor returns the accent for a listing type.
func typeColor(listingType string) lipgloss.Color {
	if listingType == "rent" {
		return ColorBlue
	}
	return ColorOrange
}
