package tui

import tea "github.com/charmbracelet/bubbletea"

// Modal is a self-contained modal that owns its own Update/View lifecycle.
// Modals are managed via a stack on the page; the topmost modal receives all
// input and renders full-screen.
type Modal interface {
	// ID returns a unique identifier used to deduplicate pushes.
	ID() string
	// Update processes a message. Return pop=true to close the modal.
	Update(msg tea.Msg) (pop bool, cmd tea.Cmd)
	// View renders the modal content for the given terminal dimensions.
	View(width, height int) string
}

// modalStack is embedded by pages that host modals.
type modalStack struct {
	modals []Modal
}

// PushModal pushes a modal onto the stack. Deduplicates by ID.
func (s *modalStack) PushModal(modal Modal) {
	for _, existing := range s.modals {
		if existing.ID() == modal.ID() {
			return
		}
	}
	s.modals = append(s.modals, modal)
}

// PopModal removes the topmost modal from the stack.
func (s *modalStack) PopModal() {
	if len(s.modals) > 0 {
		s.modals = s.modals[:len(s.modals)-1]
	}
}

// TopModal returns the topmost modal, or nil if the stack is empty.
func (s *modalStack) TopModal() Modal {
	if len(s.modals) == 0 {
		return nil
	}
	return s.modals[len(s.modals)-1]
}

// HasModal returns true if any modal is on the stack.
func (s *modalStack) HasModal() bool {
	return len(s.modals) > 0
}
