package bridge

import (
	"github.com/sasha-s/go-deadlock"
)

// ProxyTrigger is the one activation point between the controller and whatever bridge is
// currently loaded. It exists before any bridge binds to it and survives rebinding.
type ProxyTrigger struct {
	mu *deadlock.Mutex
	fn func()
}

func NewProxyTrigger() *ProxyTrigger {
	return &ProxyTrigger{mu: &deadlock.Mutex{}}
}

// Bind replaces any previous binding.
func (p *ProxyTrigger) Bind(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fn = fn
}

func (p *ProxyTrigger) Unbind() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fn = nil
}

func (p *ProxyTrigger) Bound() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fn != nil
}

// Activate runs the bound function and reports whether anything was bound.
func (p *ProxyTrigger) Activate() bool {
	p.mu.Lock()
	fn := p.fn
	p.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}
