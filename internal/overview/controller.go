// Package overview holds the presentation state of the listings overview:
// the current listings, the fetch status and the one-shot selection that
// drives navigation to the detail view.
package overview

import (
	"context"
	"log"
	"sync"

	"github.com/tinytelemetry/marsestate/internal/model"
)

// Controller mediates between a UI observer and a ListingsFetcher.
//
// Refresh, SelectListing, AcknowledgeSelection and Dispose are meant to be
// called from the owning goroutine. Fetches run on their own goroutine and
// their completions are posted to the Scheduler before touching state.
// Completions, Refresh and Dispose are serialized, so observers never see a
// completion interleaved with them. Status and listings observers must not
// call Refresh or Dispose synchronously; post them to the owner instead.
type Controller struct {
	fetcher       model.ListingsFetcher
	sched         Scheduler
	logger        *log.Logger
	defaultFilter model.Filter
	emptyDone     bool
	staleGuard    bool

	ctx    context.Context
	cancel context.CancelFunc

	status   *Observable[model.FetchStatus]
	listings *Observable[[]model.Listing]
	selected *Observable[*model.Listing]

	// emitMu is held from the disposed check through the observable
	// updates of Refresh, complete and Dispose.
	emitMu sync.Mutex

	mu       sync.Mutex
	seq      uint64
	filter   model.Filter
	lastErr  error
	disposed bool
	inflight sync.WaitGroup
}

// New creates a controller and immediately starts the initial fetch with
// the default filter.
func New(fetcher model.ListingsFetcher, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		fetcher:       fetcher,
		sched:         InlineScheduler{},
		logger:        log.Default(),
		defaultFilter: model.DefaultFilter,
		ctx:           ctx,
		cancel:        cancel,
		status:        NewObservable(model.StatusLoading),
		listings:      NewObservable[[]model.Listing](nil),
		selected:      NewObservable[*model.Listing](nil),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Refresh(c.defaultFilter)
	return c
}

// Refresh sets status to LOADING before returning and fetches filter in the
// background. Overlapping refreshes are not serialized unless the
// controller was built WithStaleGuard.
func (c *Controller) Refresh(filter model.Filter) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.seq++
	seq := c.seq
	c.filter = filter
	c.inflight.Add(1)
	c.mu.Unlock()

	c.status.Set(model.StatusLoading)

	go func() {
		defer c.inflight.Done()

		result, err := c.fetcher.Fetch(c.ctx, filter)
		if c.ctx.Err() != nil {
			return
		}
		c.sched.Post(func() {
			c.complete(seq, filter, result, err)
		})
	}()
}

func (c *Controller) complete(seq uint64, filter model.Filter, result []model.Listing, err error) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	if c.staleGuard && seq != c.seq {
		c.mu.Unlock()
		return
	}
	if err != nil {
		err = &FetchError{Filter: filter, Err: err}
		c.lastErr = err
	} else {
		c.lastErr = nil
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Printf("overview: %v", err)
		c.status.Set(model.StatusError)
		c.listings.Set([]model.Listing{})
		return
	}

	if len(result) == 0 {
		if !c.emptyDone {
			return
		}
		c.listings.Set([]model.Listing{})
		c.status.Set(model.StatusDone)
		return
	}

	c.listings.Set(append([]model.Listing(nil), result...))
	c.status.Set(model.StatusDone)
}

// SelectListing records l as the pending navigation target.
func (c *Controller) SelectListing(l model.Listing) {
	if c.isDisposed() {
		return
	}
	c.selected.Set(&l)
}

// AcknowledgeSelection clears the pending navigation target. The UI calls
// it once per observed selection so navigation is not re-triggered.
func (c *Controller) AcknowledgeSelection() {
	if c.isDisposed() {
		return
	}
	c.selected.Set(nil)
}

// Dispose cancels in-flight fetches and drops all observers. It waits for a
// completion that is already notifying, so no observer runs after it
// returns. It is safe to call more than once and in any status.
func (c *Controller) Dispose() {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.mu.Unlock()

	c.cancel()
	c.status.Close()
	c.listings.Close()
	c.selected.Close()
}

// Wait blocks until every fetch goroutine started so far has returned.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

func (c *Controller) isDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// Status returns the current fetch status.
func (c *Controller) Status() model.FetchStatus { return c.status.Get() }

// Listings returns a copy of the current listings.
func (c *Controller) Listings() []model.Listing {
	return append([]model.Listing(nil), c.listings.Get()...)
}

// Selected returns the pending navigation target, or nil.
func (c *Controller) Selected() *model.Listing { return c.selected.Get() }

// Filter returns the filter of the most recent Refresh.
func (c *Controller) Filter() model.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// LastError returns the FetchError of the last failed fetch, or nil once a
// later fetch succeeds.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// ObserveStatus subscribes fn to status changes.
func (c *Controller) ObserveStatus(fn func(model.FetchStatus)) (unsubscribe func()) {
	return c.status.Subscribe(fn)
}

// ObserveListings subscribes fn to listings replacements. The slice passed
// to fn must not be modified.
func (c *Controller) ObserveListings(fn func([]model.Listing)) (unsubscribe func()) {
	return c.listings.Subscribe(fn)
}

// ObserveSelected subscribes fn to selection changes (nil after acknowledgment).
func (c *Controller) ObserveSelected(fn func(*model.Listing)) (unsubscribe func()) {
	return c.selected.Subscribe(fn)
}
