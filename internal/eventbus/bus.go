// Package eventbus implements GradeFast's single-writer event dispatch
// connecting the grader loop and the gradebook server.
package eventbus

import (
	"sync"
	"sync/atomic"
)

// Event is the marker type for anything dispatchable. Concrete event
// payloads are plain structs defined in events.go.
type Event any

// lastEventID backs NextEventID: every Event that needs a process-wide
// monotonically increasing id draws from this.
var lastEventID int64

// NextEventID returns a fresh, strictly increasing event id.
func NextEventID() int {
	return int(atomic.AddInt64(&lastEventID, 1))
}

// Handler receives events it accepts, in registration order.
type Handler interface {
	Accept(e Event) bool
	Handle(e Event)
}

// HandlerFunc pairs an Accept predicate with a Handle callback, sparing
// callers from declaring a dedicated type for a one-off subscription.
type HandlerFunc struct {
	AcceptFn func(e Event) bool
	HandleFn func(e Event)
}

func (h HandlerFunc) Accept(e Event) bool { return h.AcceptFn(e) }
func (h HandlerFunc) Handle(e Event)      { h.HandleFn(e) }

// Bus dispatches events to registered handlers. Dispatch is single-writer:
// a dispatch already in progress drains a FIFO queue rather than letting a
// handler's own Dispatch call recurse back into handler iteration, so a
// handler is free to dispatch further events without deadlocking or
// interleaving with another goroutine's dispatch.
type Bus struct {
	mu         sync.Mutex
	handlers   []Handler
	queue      []Event
	draining   bool
	blockDepth int
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{}
}

// Register adds a handler, consulted in registration order on every
// future Dispatch.
func (b *Bus) Register(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Dispatch enqueues e for delivery. If a dispatch is already draining the
// queue (on this goroutine or another), e is picked up by that drain loop;
// otherwise this call drains the queue itself.
func (b *Bus) Dispatch(e Event) {
	b.mu.Lock()
	if b.blockDepth > 0 {
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, e)
	if b.draining {
		b.mu.Unlock()
		return
	}
	b.draining = true
	b.mu.Unlock()

	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.draining = false
			b.mu.Unlock()
			return
		}
		next := b.queue[0]
		b.queue = b.queue[1:]
		handlers := append([]Handler(nil), b.handlers...)
		b.mu.Unlock()

		for _, h := range handlers {
			if h.Accept(next) {
				h.Handle(next)
			}
		}
	}
}

// BlockEventDispatching returns a release function; while held, Dispatch
// is a no-op. Used around bulk submission-list rebuilds that would
// otherwise fire one NewSubmissionsEvent per item.
func (b *Bus) BlockEventDispatching() func() {
	b.mu.Lock()
	b.blockDepth++
	b.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			b.blockDepth--
			b.mu.Unlock()
		})
	}
}
