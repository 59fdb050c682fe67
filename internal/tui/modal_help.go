package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const helpIntro = `Mars Real Estate

Browse properties offered on Mars. The list shows the listings for the
active filter; press enter on a row to open its details.

STATUS:
  Loading  - a request for the active filter is in flight
  Error    - the last request failed; press R to retry
`

// HelpModal lists every key binding.
type HelpModal struct {
	keys         KeyMap
	viewport     viewport.Model
	reverseWheel bool
}

func NewHelpModal(keys KeyMap, reverseWheel bool) *HelpModal {
	return &HelpModal{
		keys:         keys,
		viewport:     viewport.New(80, 20),
		reverseWheel: reverseWheel,
	}
}

func (h *HelpModal) ID() string { return "help" }

func (h *HelpModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	if scrollViewport(&h.viewport, msg, h.reverseWheel) {
		return false, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "escape", "esc", "?", "q":
			return true, nil
		}
	}
	return false, nil
}

func (h *HelpModal) View(width, height int) string {
	hm := help.New()
	hm.ShowAll = true
	content := helpIntro + "\nKEYS:\n" + hm.View(h.keys)
	return renderModalFrame(&h.viewport, "Help", content,
		[]string{"up/down/Wheel: Scroll", "PgUp/PgDn: Page", "?: Toggle Help", "ESC: Close"}, width, height)
}
