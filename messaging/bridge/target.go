package bridge

import (
	"github.com/sasha-s/go-deadlock"
)

// Target is the process-wide place success signals are dispatched on. Listeners subscribe by
// signal name.
type Target struct {
	mu    *deadlock.Mutex
	names map[string]*handlers
}

func NewTarget() *Target {
	return &Target{mu: &deadlock.Mutex{}, names: make(map[string]*handlers)}
}

func (t *Target) Subscribe(name string, fn func(Signal)) (unsubscribe func()) {
	t.mu.Lock()
	h, ok := t.names[name]
	if !ok {
		h = newHandlers()
		t.names[name] = h
	}
	t.mu.Unlock()
	return h.add(fn)
}

// Dispatch delivers s to everyone subscribed to s.Name and returns how many received it.
// Nobody listening is not an error.
func (t *Target) Dispatch(s Signal) int {
	t.mu.Lock()
	h, ok := t.names[s.Name]
	t.mu.Unlock()
	if !ok {
		return 0
	}
	return h.emit(s)
}
