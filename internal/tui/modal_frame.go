package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// renderModalFrame renders a scrollable modal with a header and status bar.
func renderModalFrame(vp *viewport.Model, title, content string, statusItems []string, width, height int) string {
	// Calculate dimensions
	modalWidth := max(width-8, 24)   // 4 chars margin on each side
	modalHeight := max(height-6, 10) // 3 lines margin top and bottom

	// Account for borders and headers
	contentWidth := modalWidth - 4
	contentHeight := modalHeight - 4

	vp.Width = contentWidth
	vp.Height = contentHeight
	vp.SetContent(lipgloss.NewStyle().Width(contentWidth - 2).Render(content))

	contentPane := lipgloss.NewStyle().
		Width(contentWidth).
		Height(contentHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Render(vp.View())

	header := lipgloss.NewStyle().
		Width(contentWidth).
		Foreground(ColorBlue).
		Bold(true).
		Render(title)

	statusBar := lipgloss.NewStyle().
		Foreground(ColorGray).
		Render(strings.Join(statusItems, " | "))

	modal := lipgloss.JoinVertical(lipgloss.Left, header, contentPane, statusBar)

	finalModal := lipgloss.NewStyle().
		Width(modalWidth).
		Height(modalHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Render(modal)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, finalModal)
}

// scrollViewport applies the shared modal scroll keys and wheel events.
// It reports whether msg was consumed.
func scrollViewport(vp *viewport.Model, msg tea.Msg, reverseWheel bool) bool {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			vp.ScrollUp(1)
			return true
		case "down", "j":
			vp.ScrollDown(1)
			return true
		case "pgup":
			vp.HalfPageUp()
			return true
		case "pgdown":
			vp.HalfPageDown()
			return true
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return false
		}
		up := msg.Button == tea.MouseButtonWheelUp
		down := msg.Button == tea.MouseButtonWheelDown
		if reverseWheel {
			up, down = down, up
		}
		switch {
		case up:
			vp.ScrollUp(1)
			return true
		case down:
			vp.ScrollDown(1)
			return true
		}
	}
	return false
}
