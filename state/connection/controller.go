package connection

import (
	"time"

	"factionengine/engine/library"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
)

// Controller owns the wallet handshake: Idle -> Connecting -> Connected | Failed. Exactly one of
// success, timeout or cancel resolves each Connecting period.
type Controller struct {
	mutex    *deadlock.Mutex
	clock    clock.Clock
	timeout  time.Duration
	trigger  Trigger
	fallback library.Account

	state  State
	timer  *clock.Timer
	closed bool

	version     uint64
	observers   map[uint64]func(State)
	nextID      uint64
	notifyMutex *deadlock.Mutex
	notified    uint64
}

// New builds an Idle controller. fallback stands in for the wallet id when a success arrives
// without one.
func New(trigger Trigger, c clock.Clock, timeout time.Duration, fallback library.Account) *Controller {
	return &Controller{
		mutex:       &deadlock.Mutex{},
		clock:       c,
		timeout:     timeout,
		trigger:     trigger,
		fallback:    fallback,
		state:       State{Phase: Idle},
		observers:   make(map[uint64]func(State)),
		notifyMutex: &deadlock.Mutex{},
	}
}

func (c *Controller) State() State {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.state
}

// Subscribe registers fn for every state change. Observers run outside the controller lock;
// a notification that is overtaken by a newer one is dropped.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	return func() {
		c.mutex.Lock()
		defer c.mutex.Unlock()
		delete(c.observers, id)
	}
}

// Start begins a handshake from Idle or Failed and reports whether it did. It does nothing while
// Connecting or Connected.
func (c *Controller) Start() bool {
	c.mutex.Lock()
	if c.closed || (c.state.Phase != Idle && c.state.Phase != Failed) {
		c.mutex.Unlock()
		return false
	}
	attempt := uuid.NewString()
	c.arm(attempt)
	publish := c.setLocked(State{Phase: Connecting, Attempt: attempt, StartedAt: c.clock.Now()})
	c.mutex.Unlock()
	publish()

	if !c.trigger.Activate() {
		library.LogCLI("wallet bridge is not bound to the proxy trigger, handshake "+attempt+" will time out unless it attaches", 1)
	}
	return true
}

// Retry is Start from Failed. It reports whether a new attempt began.
func (c *Controller) Retry() bool {
	if c.State().Phase != Failed {
		return false
	}
	return c.Start()
}

// OnExternalSuccess resolves the current handshake. Signals that arrive outside Connecting are
// ignored and false is returned.
func (c *Controller) OnExternalSuccess(walletID library.Account) bool {
	c.mutex.Lock()
	if c.closed || c.state.Phase != Connecting {
		c.mutex.Unlock()
		return false
	}
	if walletID == "" {
		walletID = c.fallback
	}
	c.disarm()
	publish := c.setLocked(State{
		Phase:     Connected,
		Attempt:   c.state.Attempt,
		StartedAt: c.state.StartedAt,
		WalletID:  walletID,
	})
	c.mutex.Unlock()
	publish()
	library.LogCLI("Wallet "+walletID+" connected", 4)
	return true
}

// Cancel returns Connecting or Failed to Idle.
func (c *Controller) Cancel() bool {
	c.mutex.Lock()
	if c.closed || (c.state.Phase != Connecting && c.state.Phase != Failed) {
		c.mutex.Unlock()
		return false
	}
	c.disarm()
	publish := c.setLocked(State{Phase: Idle})
	c.mutex.Unlock()
	publish()
	return true
}

// Disconnect returns Connected to Idle.
func (c *Controller) Disconnect() bool {
	c.mutex.Lock()
	if c.closed || c.state.Phase != Connected {
		c.mutex.Unlock()
		return false
	}
	publish := c.setLocked(State{Phase: Idle})
	c.mutex.Unlock()
	publish()
	return true
}

// Close disarms any pending timeout. Every later call is a no-op.
func (c *Controller) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.disarm()
	c.closed = true
	c.observers = make(map[uint64]func(State))
}

func (c *Controller) onTimeout(attempt string) {
	c.mutex.Lock()
	if c.closed || c.state.Phase != Connecting || c.state.Attempt != attempt {
		c.mutex.Unlock()
		return
	}
	c.timer = nil
	publish := c.setLocked(State{
		Phase:     Failed,
		Attempt:   attempt,
		StartedAt: c.state.StartedAt,
		Reason:    ReasonTimeout,
		Message:   TimeoutMessage,
		CanRetry:  true,
	})
	c.mutex.Unlock()
	publish()
	library.LogCLI("wallet handshake "+attempt+" timed out", 2)
}

// arm replaces the timeout handle with one bound to attempt.
func (c *Controller) arm(attempt string) {
	c.disarm()
	c.timer = c.clock.AfterFunc(c.timeout, func() {
		c.onTimeout(attempt)
	})
}

func (c *Controller) disarm() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// setLocked must be called with the mutex held. The returned func notifies observers and must be
// called after unlocking.
func (c *Controller) setLocked(s State) func() {
	c.state = s
	c.version++
	version := c.version
	fns := make([]func(State), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	return func() {
		c.notifyMutex.Lock()
		if version <= c.notified {
			c.notifyMutex.Unlock()
			return
		}
		c.notified = version
		c.notifyMutex.Unlock()
		for _, fn := range fns {
			fn(s)
		}
	}
}
