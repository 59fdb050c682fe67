package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/marsestate/internal/model"
)

// DetailModal shows a single listing. It is the navigation target of a
// selection on the overview page.
type DetailModal struct {
	listing      model.Listing
	viewport     viewport.Model
	reverseWheel bool
}

func NewDetailModal(l model.Listing, reverseWheel bool) *DetailModal {
	return &DetailModal{
		listing:      l,
		viewport:     viewport.New(80, 20),
		reverseWheel: reverseWheel,
	}
}

func (d *DetailModal) ID() string { return "detail" }

// Listing returns the listing being shown.
func (d *DetailModal) Listing() model.Listing { return d.listing }

func (d *DetailModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	if scrollViewport(&d.viewport, msg, d.reverseWheel) {
		return false, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "escape", "esc", "enter", "backspace":
			return true, nil
		}
	}
	return false, nil
}

func (d *DetailModal) View(width, height int) string {
	return renderModalFrame(&d.viewport, "Listing "+d.listing.ID, formatListingDetails(d.listing),
		[]string{"up/down/Wheel: Scroll", "ESC/Enter: Back"}, width, height)
}

// formatListingDetails renders the detail fields of a listing.
func formatListingDetails(l model.Listing) string {
	label := lipgloss.NewStyle().Foreground(ColorGray).Width(8)
	value := lipgloss.NewStyle().Foreground(ColorWhite)

	kind := "For sale"
	if l.IsRental() {
		kind = "For rent"
	}

	rows := []struct{ k, v string }{
		{"ID", l.ID},
		{"Type", lipgloss.NewStyle().Foreground(typeColor(l.Type)).Bold(true).Render(kind)},
		{"Price", value.Render(l.DisplayPrice())},
		{"Image", value.Render(l.ImgSrcURL)},
	}

	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %s\n", label.Render(r.k), r.v)
	}
	return b.String()
}
