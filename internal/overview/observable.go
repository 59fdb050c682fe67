package overview

import "sync"

// Observable holds one value and pushes every change to its subscribers.
// Subscribers run synchronously on the goroutine that called Set, in
// subscription order, outside the internal lock.
type Observable[T any] struct {
	mu     sync.Mutex
	value  T
	nextID int
	subs   []subscriber[T]
	closed bool
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// NewObservable returns an Observable holding initial.
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{value: initial}
}

// Get returns the current value.
func (o *Observable[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Set stores v and notifies subscribers. It is a no-op after Close, and
// subscribers not yet reached when Close runs are skipped.
func (o *Observable[T]) Set(v T) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.value = v
	subs := append([]subscriber[T](nil), o.subs...)
	o.mu.Unlock()

	for _, s := range subs {
		if o.isClosed() {
			return
		}
		s.fn(v)
	}
}

func (o *Observable[T]) isClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

// Subscribe registers fn for future changes. There is no replay of the
// current value. The returned func removes the subscription.
func (o *Observable[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || fn == nil {
		return func() {}
	}

	o.nextID++
	id := o.nextID
	o.subs = append(o.subs, subscriber[T]{id: id, fn: fn})

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		for i, s := range o.subs {
			if s.id == id {
				o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
				return
			}
		}
	}
}

// Close drops all subscribers and freezes the value.
func (o *Observable[T]) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.subs = nil
}
