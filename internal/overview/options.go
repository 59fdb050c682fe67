package overview

import (
	"log"

	"github.com/tinytelemetry/marsestate/internal/model"
)

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler sets where fetch completions run. Defaults to InlineScheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.sched = s
		}
	}
}

// WithLogger sets the logger used for fetch failures. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDefaultFilter sets the filter used by the initial fetch.
func WithDefaultFilter(f model.Filter) Option {
	return func(c *Controller) { c.defaultFilter = f }
}

// WithEmptyResultDone makes an empty successful result set status DONE and
// clear the listings. Without it an empty result leaves both untouched and
// status stays LOADING.
func WithEmptyResultDone() Option {
	return func(c *Controller) { c.emptyDone = true }
}

// WithStaleGuard drops completions of every refresh except the most recent.
func WithStaleGuard() Option {
	return func(c *Controller) { c.staleGuard = true }
}
