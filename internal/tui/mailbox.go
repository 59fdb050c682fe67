package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// mailboxMsg carries a posted function into the Bubble Tea update loop.
type mailboxMsg struct {
	fn func()
}

// Mailbox is an overview.Scheduler that runs posted functions inside Update,
// so controller completions and the observers they trigger never race with
// rendering. The page re-arms Wait after every delivered message.
type Mailbox struct {
	ch   chan func()
	done chan struct{}
	once sync.Once
}

// NewMailbox returns a mailbox buffering up to size pending functions.
func NewMailbox(size int) *Mailbox {
	return &Mailbox{
		ch:   make(chan func(), size),
		done: make(chan struct{}),
	}
}

// Post queues fn for the update loop. After Close it drops fn.
func (m *Mailbox) Post(fn func()) {
	select {
	case <-m.done:
		return
	default:
	}
	select {
	case m.ch <- fn:
	case <-m.done:
	}
}

// Wait returns a command that delivers the next posted function.
func (m *Mailbox) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-m.ch:
			return mailboxMsg{fn: fn}
		case <-m.done:
			return nil
		}
	}
}

// Close stops delivery and unblocks pending posters.
func (m *Mailbox) Close() {
	m.once.Do(func() { close(m.done) })
}
