package overview

// Scheduler marshals fetch completions onto the context that owns the
// controller state (for the TUI, the bubbletea update loop).
type Scheduler interface {
	Post(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

func (f SchedulerFunc) Post(fn func()) { f(fn) }

// InlineScheduler runs posted functions immediately on the calling goroutine.
type InlineScheduler struct{}

func (InlineScheduler) Post(fn func()) { fn() }
