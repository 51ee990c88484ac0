package bridge

import (
	"github.com/sasha-s/go-deadlock"
)

// handlers is the registration list shared by the bridges.
type handlers struct {
	mu   *deadlock.Mutex
	next uint64
	fns  map[uint64]func(Signal)
}

func newHandlers() *handlers {
	return &handlers{mu: &deadlock.Mutex{}, fns: make(map[uint64]func(Signal))}
}

func (h *handlers) add(fn func(Signal)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	h.fns[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.fns, id)
	}
}

// emit calls every handler outside the lock so handlers may unsubscribe.
func (h *handlers) emit(s Signal) int {
	h.mu.Lock()
	fns := make([]func(Signal), 0, len(h.fns))
	for _, fn := range h.fns {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
	return len(fns)
}

func (h *handlers) clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = make(map[uint64]func(Signal))
}
