package overview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tinytelemetry/marsestate/internal/model"
)

type step struct {
	listings []model.Listing
	err      error
	gate     chan struct{} // nil = resolve immediately
}

// scriptedFetcher answers the n-th Fetch with steps[n]; calls past the
// script resolve with an empty result.
type scriptedFetcher struct {
	mu    sync.Mutex
	steps []step
	calls []model.Filter
}

func (f *scriptedFetcher) Fetch(ctx context.Context, filter model.Filter) ([]model.Listing, error) {
	f.mu.Lock()
	idx := len(f.calls)
	f.calls = append(f.calls, filter)
	var s step
	if idx < len(f.steps) {
		s = f.steps[idx]
	}
	f.mu.Unlock()

	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.listings, s.err
}

func (f *scriptedFetcher) Calls() []model.Filter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Filter(nil), f.calls...)
}

type recorder[T any] struct {
	mu   sync.Mutex
	seen []T
}

func (r *recorder[T]) record(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, v)
}

func (r *recorder[T]) Seen() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.seen...)
}

func makeListings(n int, typ string) []model.Listing {
	out := make([]model.Listing, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Listing{
			ID:        fmt.Sprintf("%s-%d", typ, i),
			ImgSrcURL: fmt.Sprintf("http://mars.jpl.nasa.gov/%s/%d.jpg", typ, i),
			Type:      typ,
			Price:     float64(100000 + i*1000),
		})
	}
	return out
}

func quietLogger() Option {
	return WithLogger(log.New(io.Discard, "", 0))
}

func TestNew_InitialFetchUsesDefaultFilter(t *testing.T) {
	want := makeListings(3, model.TypeBuy)
	f := &scriptedFetcher{steps: []step{{listings: want}}}

	c := New(f, quietLogger())
	defer c.Dispose()
	c.Wait()

	require.Equal(t, []model.Filter{model.ShowAll}, f.Calls())
	require.Equal(t, model.StatusDone, c.Status())
	require.Equal(t, want, c.Listings())
	require.Nil(t, c.Selected())
	require.NoError(t, c.LastError())
}

func TestNew_HonorsConfiguredDefaultFilter(t *testing.T) {
	f := &scriptedFetcher{steps: []step{{listings: makeListings(1, model.TypeRent)}}}

	c := New(f, quietLogger(), WithDefaultFilter(model.ShowRent))
	defer c.Dispose()
	c.Wait()

	require.Equal(t, []model.Filter{model.ShowRent}, f.Calls())
	require.Equal(t, model.ShowRent, c.Filter())
}

func TestRefresh_SetsLoadingBeforeReturning(t *testing.T) {
	gate := make(chan struct{})
	f := &scriptedFetcher{steps: []step{
		{listings: makeListings(2, model.TypeRent)},
		{listings: makeListings(1, model.TypeBuy), gate: gate},
	}}

	c := New(f, quietLogger())
	defer c.Dispose()
	c.Wait()
	require.Equal(t, model.StatusDone, c.Status())

	statuses := &recorder[model.FetchStatus]{}
	c.ObserveStatus(statuses.record)

	c.Refresh(model.ShowBuy)
	require.Equal(t, model.StatusLoading, c.Status())
	require.Equal(t, []model.FetchStatus{model.StatusLoading}, statuses.Seen())

	close(gate)
	c.Wait()

	require.Equal(t, []model.FetchStatus{model.StatusLoading, model.StatusDone}, statuses.Seen())
	require.Equal(t, makeListings(1, model.TypeBuy), c.Listings())
	require.Equal(t, model.ShowBuy, c.Filter())
}

func TestRefresh_EmptyResultLeavesStateUntouched(t *testing.T) {
	first := makeListings(2, model.TypeRent)
	f := &scriptedFetcher{steps: []step{
		{listings: first},
		{listings: []model.Listing{}},
	}}

	c := New(f, quietLogger())
	defer c.Dispose()
	c.Wait()

	listings := &recorder[[]model.Listing]{}
	c.ObserveListings(listings.record)

	c.Refresh(model.ShowBuy)
	c.Wait()

	require.Equal(t, model.StatusLoading, c.Status())
	require.Equal(t, first, c.Listings())
	require.Empty(t, listings.Seen())
}

func TestRefresh_EmptyResultDoneWhenEnabled(t *testing.T) {
	f := &scriptedFetcher{steps: []step{
		{listings: makeListings(2, model.TypeRent)},
		{listings: nil},
	}}

	c := New(f, quietLogger(), WithEmptyResultDone())
	defer c.Dispose()
	c.Wait()

	c.Refresh(model.ShowBuy)
	c.Wait()

	require.Equal(t, model.StatusDone, c.Status())
	require.Empty(t, c.Listings())
}

func TestRefresh_FailureMapsToErrorAndEmptiesListings(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	f := &scriptedFetcher{steps: []step{
		{listings: makeListings(3, model.TypeBuy)},
		{err: cause},
	}}

	c := New(f, quietLogger())
	defer c.Dispose()
	c.Wait()

	listings := &recorder[[]model.Listing]{}
	c.ObserveListings(listings.record)

	c.Refresh(model.ShowRent)
	c.Wait()

	require.Equal(t, model.StatusError, c.Status())
	require.NotNil(t, c.Listings())
	require.Empty(t, c.Listings())

	seen := listings.Seen()
	require.Len(t, seen, 1)
	require.NotNil(t, seen[0])
	require.Empty(t, seen[0])

	err := c.LastError()
	require.ErrorIs(t, err, ErrFetchFailed)
	require.ErrorIs(t, err, cause)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, model.ShowRent, fe.Filter)
}

func TestRefresh_RecoversAfterFailure(t *testing.T) {
	want := makeListings(2, model.TypeRent)
	f := &scriptedFetcher{steps: []step{
		{err: errors.New("timeout")},
		{listings: want},
	}}

	c := New(f, quietLogger())
	defer c.Dispose()
	c.Wait()
	require.Equal(t, model.StatusError, c.Status())

	c.Refresh(model.ShowAll)
	c.Wait()

	require.Equal(t, model.StatusDone, c.Status())
	require.Equal(t, want, c.Listings())
	require.NoError(t, c.LastError())
}

func TestSelection_OneShot(t *testing.T) {
	f := &scriptedFetcher{steps: []step{{listings: makeListings(1, model.TypeBuy)}}}
	c := New(f, quietLogger())
	defer c.Dispose()
	c.Wait()

	selections := &recorder[*model.Listing]{}
	c.ObserveSelected(selections.record)

	target := c.Listings()[0]
	c.SelectListing(target)
	require.Equal(t, &target, c.Selected())

	c.AcknowledgeSelection()
	require.Nil(t, c.Selected())

	seen := selections.Seen()
	require.Len(t, seen, 2)
	require.NotNil(t, seen[0])
	require.Equal(t, target, *seen[0])
	require.Nil(t, seen[1])
}

func TestDispose_SuppressesLateCompletion(t *testing.T) {
	gate := make(chan struct{})
	f := &scriptedFetcher{steps: []step{
		{listings: makeListings(1, model.TypeRent)},
		{listings: makeListings(5, model.TypeBuy), gate: gate},
	}}

	c := New(f, quietLogger())
	c.Wait()

	statuses := &recorder[model.FetchStatus]{}
	listings := &recorder[[]model.Listing]{}
	c.ObserveStatus(statuses.record)
	c.ObserveListings(listings.record)

	c.Refresh(model.ShowBuy)
	c.Dispose()
	close(gate)
	c.Wait()

	require.Equal(t, []model.FetchStatus{model.StatusLoading}, statuses.Seen())
	require.Empty(t, listings.Seen())
	require.Equal(t, makeListings(1, model.TypeRent), c.Listings())
}

func TestDispose_CancelsInFlightFetch(t *testing.T) {
	// The gate is never closed: only context cancellation can end the fetch.
	f := &scriptedFetcher{steps: []step{{gate: make(chan struct{})}}}
	c := New(f, quietLogger())

	c.Dispose()

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fetch was not cancelled by Dispose")
	}
	require.NoError(t, c.LastError())
}

func TestDispose_IdempotentAndStopsOperations(t *testing.T) {
	f := &scriptedFetcher{steps: []step{{listings: makeListings(1, model.TypeRent)}}}
	c := New(f, quietLogger())
	c.Wait()

	statuses := &recorder[model.FetchStatus]{}
	selections := &recorder[*model.Listing]{}
	c.ObserveStatus(statuses.record)
	c.ObserveSelected(selections.record)

	c.Dispose()
	c.Dispose()

	c.Refresh(model.ShowBuy)
	c.SelectListing(model.Listing{ID: "x"})
	c.AcknowledgeSelection()
	c.Wait()

	require.Len(t, f.Calls(), 1)
	require.Empty(t, statuses.Seen())
	require.Empty(t, selections.Seen())
	require.Nil(t, c.Selected())
}

func TestRefresh_OverlapWithoutGuardLetsStaleResultWin(t *testing.T) {
	slow := make(chan struct{})
	stale := makeListings(2, model.TypeRent)
	fresh := makeListings(3, model.TypeBuy)
	f := &scriptedFetcher{steps: []step{
		{listings: stale, gate: slow},
		{listings: fresh},
	}}

	c := New(f, quietLogger())
	defer c.Dispose()

	require.Eventually(t, func() bool { return len(f.Calls()) == 1 }, time.Second, time.Millisecond)
	c.Refresh(model.ShowBuy)
	require.Eventually(t, func() bool { return len(c.Listings()) == len(fresh) }, time.Second, 5*time.Millisecond)

	close(slow)
	c.Wait()

	require.Equal(t, stale, c.Listings())
}

func TestRefresh_StaleGuardKeepsNewestResult(t *testing.T) {
	slow := make(chan struct{})
	fresh := makeListings(3, model.TypeBuy)
	f := &scriptedFetcher{steps: []step{
		{listings: makeListings(2, model.TypeRent), gate: slow},
		{listings: fresh},
	}}

	c := New(f, quietLogger(), WithStaleGuard())
	defer c.Dispose()

	require.Eventually(t, func() bool { return len(f.Calls()) == 1 }, time.Second, time.Millisecond)
	c.Refresh(model.ShowBuy)
	require.Eventually(t, func() bool { return c.Status() == model.StatusDone }, time.Second, 5*time.Millisecond)

	close(slow)
	c.Wait()

	require.Equal(t, fresh, c.Listings())
	require.Equal(t, model.StatusDone, c.Status())
}

// queueScheduler holds completions until drained, like a UI event loop.
type queueScheduler struct {
	mu    sync.Mutex
	queue []func()
}

func (q *queueScheduler) post(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queue = append(q.queue, fn)
}

// Scheduler exposes the queue through SchedulerFunc.
func (q *queueScheduler) Scheduler() Scheduler { return SchedulerFunc(q.post) }

func (q *queueScheduler) Drain() int {
	q.mu.Lock()
	pending := q.queue
	q.queue = nil
	q.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
	return len(pending)
}

func TestScheduler_CompletionRunsOnlyWhenDrained(t *testing.T) {
	sched := &queueScheduler{}
	want := makeListings(3, model.TypeRent)
	f := &scriptedFetcher{steps: []step{{listings: want}}}

	c := New(f, quietLogger(), WithScheduler(sched.Scheduler()))
	defer c.Dispose()
	c.Wait()

	require.Equal(t, model.StatusLoading, c.Status())
	require.Empty(t, c.Listings())

	require.Equal(t, 1, sched.Drain())
	require.Equal(t, model.StatusDone, c.Status())
	require.Equal(t, want, c.Listings())
}

func TestScheduler_DisposeBeforeDrainDropsCompletion(t *testing.T) {
	sched := &queueScheduler{}
	f := &scriptedFetcher{steps: []step{{listings: makeListings(3, model.TypeRent)}}}

	c := New(f, quietLogger(), WithScheduler(sched.Scheduler()))
	c.Wait()
	c.Dispose()

	sched.Drain()
	require.Equal(t, model.StatusLoading, c.Status())
	require.Empty(t, c.Listings())
}

// blockOn returns a status observer that parks on want until release is
// closed, signalling entered first.
func blockOn(want model.FetchStatus, entered, release chan struct{}) func(model.FetchStatus) {
	var once sync.Once
	return func(s model.FetchStatus) {
		if s != want {
			return
		}
		once.Do(func() {
			close(entered)
			<-release
		})
	}
}

func TestDispose_WaitsForNotifyingCompletion(t *testing.T) {
	gate := make(chan struct{})
	f := &scriptedFetcher{steps: []step{{listings: makeListings(2, model.TypeRent), gate: gate}}}

	c := New(f, quietLogger())
	entered, release := make(chan struct{}), make(chan struct{})
	c.ObserveStatus(blockOn(model.StatusDone, entered, release))

	var (
		mu    sync.Mutex
		done  bool
		after []model.FetchStatus
	)
	c.ObserveStatus(func(s model.FetchStatus) {
		mu.Lock()
		defer mu.Unlock()
		if done {
			after = append(after, s)
		}
	})

	close(gate)
	<-entered

	disposed := make(chan struct{})
	go func() {
		c.Dispose()
		mu.Lock()
		done = true
		mu.Unlock()
		close(disposed)
	}()

	require.Never(t, func() bool {
		select {
		case <-disposed:
			return true
		default:
			return false
		}
	}, 50*time.Millisecond, 5*time.Millisecond)

	close(release)
	<-disposed
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Empty(t, after)
}

func TestRefresh_OrderedAfterNotifyingCompletion(t *testing.T) {
	first := make(chan struct{})
	f := &scriptedFetcher{steps: []step{
		{listings: makeListings(2, model.TypeBuy), gate: first},
		{gate: make(chan struct{})},
	}}

	c := New(f, quietLogger())
	defer c.Dispose()

	entered, release := make(chan struct{}), make(chan struct{})
	c.ObserveStatus(blockOn(model.StatusDone, entered, release))
	mirror := &recorder[model.FetchStatus]{}
	c.ObserveStatus(mirror.record)

	close(first)
	<-entered

	refreshed := make(chan struct{})
	go func() {
		c.Refresh(model.ShowRent)
		close(refreshed)
	}()

	close(release)
	<-refreshed

	seen := mirror.Seen()
	require.NotEmpty(t, seen)
	require.Equal(t, model.StatusLoading, seen[len(seen)-1])
	require.Equal(t, model.StatusLoading, c.Status())
}
