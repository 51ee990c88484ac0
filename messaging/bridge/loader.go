package bridge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"factionengine/engine/actors"
	"factionengine/engine/library"
	"github.com/benbjohnson/clock"
	"github.com/sasha-s/go-deadlock"
)

// Loader injects the wallet plugin: it fetches the manifest, builds the bridge, attaches it, and
// binds it to the ProxyTrigger. At most one instance exists at a time.
type Loader struct {
	Clock   clock.Clock
	Delay   time.Duration
	Fetch   func(path string) ([]byte, error)
	Factory Factory

	target  *Target
	trigger *ProxyTrigger

	mu         *deadlock.Mutex
	generation uint64
	pending    *clock.Timer
	cancel     context.CancelFunc
	instance   WalletBridge
	forwardOff func()
}

func NewLoader(target *Target, trigger *ProxyTrigger) *Loader {
	return &Loader{
		Clock:   clock.New(),
		Delay:   actors.MakeOrGetConfig().GetDuration("pluginLoadDelay"),
		Fetch:   actors.OpenResource,
		Factory: NewBridge,
		target:  target,
		trigger: trigger,
		mu:      &deadlock.Mutex{},
	}
}

// EnsureLoaded schedules injection after Delay. Calling it again before the delay elapses
// replaces the pending injection.
func (l *Loader) EnsureLoaded(primary, fallback string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending != nil {
		l.pending.Stop()
	}
	l.generation++
	generation := l.generation
	l.pending = l.Clock.AfterFunc(l.Delay, func() {
		l.inject(generation, primary, fallback)
	})
}

// Teardown cancels a pending injection and removes the current instance.
func (l *Loader) Teardown() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generation++
	if l.pending != nil {
		l.pending.Stop()
		l.pending = nil
	}
	l.removeLocked()
}

func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.instance != nil
}

// Instance is the currently injected bridge, nil if none.
func (l *Loader) Instance() WalletBridge {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.instance
}

// removeLocked also cancels an Attach still in progress.
func (l *Loader) removeLocked() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if l.instance == nil {
		return
	}
	l.trigger.Unbind()
	if l.forwardOff != nil {
		l.forwardOff()
		l.forwardOff = nil
	}
	if err := l.instance.Close(); err != nil {
		library.LogCLI(err, 2)
	}
	l.instance = nil
}

func (l *Loader) inject(generation uint64, primary, fallback string) {
	l.mu.Lock()
	if generation != l.generation {
		l.mu.Unlock()
		return
	}
	l.pending = nil
	l.removeLocked()
	l.mu.Unlock()

	data, source, err := l.fetch(primary, fallback)
	if err != nil {
		library.LogCLI(err, 1)
		return
	}
	m, err := ParseManifest(data)
	if err != nil {
		library.LogCLI(err, 1)
		return
	}
	b, err := l.Factory(m)
	if err != nil {
		library.LogCLI(fmt.Errorf("wallet plugin %s: %w", source, err), 1)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.mu.Lock()
	if generation != l.generation {
		l.mu.Unlock()
		cancel()
		return
	}
	l.cancel = cancel
	l.mu.Unlock()
	if err := b.Attach(ctx); err != nil {
		cancel()
		library.LogCLI(fmt.Errorf("attach wallet plugin %s: %w", source, err), 1)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if generation != l.generation {
		// torn down or rescheduled while attaching
		b.Close()
		cancel()
		return
	}
	l.instance = b
	l.forwardOff = b.OnSuccess(func(s Signal) {
		l.target.Dispatch(s)
	})
	l.trigger.Bind(func() {
		if err := b.Trigger(); err != nil {
			library.LogCLI(err, 1)
		}
	})
	library.LogCLI(fmt.Sprintf("Wallet plugin %s %s loaded from %s (sha256 %s)", m.Name, m.Version, source, library.Sha256Sum(data)), 4)
}

// fetch reads primary, falling back once to fallback when primary is an absolute path.
func (l *Loader) fetch(primary, fallback string) ([]byte, string, error) {
	data, err := l.Fetch(primary)
	if err == nil {
		return data, primary, nil
	}
	library.LogCLI(fmt.Sprintf("failed to load wallet plugin from %s: %s", primary, err), 2)
	if !strings.HasPrefix(primary, "/") || fallback == "" {
		return nil, "", fmt.Errorf("load wallet plugin %s: %w", primary, err)
	}
	data, err = l.Fetch(fallback)
	if err != nil {
		return nil, "", fmt.Errorf("load wallet plugin fallback %s: %w", fallback, err)
	}
	return data, fallback, nil
}
