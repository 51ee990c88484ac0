package bridge

import (
	"context"
	"encoding/json"

	"factionengine/engine/actors"
	"github.com/sasha-s/go-deadlock"
)

// LocalBridge is an in-process wallet. Trigger only records the request, Approve plays the part of
// the user approving it in their wallet.
type LocalBridge struct {
	mu       *deadlock.Mutex
	manifest Manifest
	attached bool
	requests int
	handlers *handlers
}

func NewLocalBridge(m Manifest) *LocalBridge {
	return &LocalBridge{mu: &deadlock.Mutex{}, manifest: m, handlers: newHandlers()}
}

func (b *LocalBridge) Attach(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attached = true
	return nil
}

func (b *LocalBridge) Trigger() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return ErrNotAttached
	}
	b.requests++
	return nil
}

// Requests is how many handshakes have been requested since Attach.
func (b *LocalBridge) Requests() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests
}

func (b *LocalBridge) OnSuccess(fn func(Signal)) func() {
	return b.handlers.add(fn)
}

// Approve emits the plugin's connected signal carrying detail.
func (b *LocalBridge) Approve(detail json.RawMessage) int {
	return b.Emit(Signal{Name: b.manifest.SignalName(actors.SignalWalletConnected), Detail: detail})
}

func (b *LocalBridge) Emit(s Signal) int {
	b.mu.Lock()
	attached := b.attached
	b.mu.Unlock()
	if !attached {
		return 0
	}
	return b.handlers.emit(s)
}

func (b *LocalBridge) Close() error {
	b.mu.Lock()
	b.attached = false
	b.mu.Unlock()
	b.handlers.clear()
	return nil
}
