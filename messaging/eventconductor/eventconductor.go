package eventconductor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"factionengine/engine/actors"
	"factionengine/engine/library"
	"factionengine/messaging/bridge"
	"factionengine/messaging/eventcatcher"
	"factionengine/state/activity"
	"factionengine/state/connection"
	"factionengine/state/cycle"
	"factionengine/state/factions"
	"factionengine/state/governance"
	"factionengine/state/session"
	"github.com/benbjohnson/clock"
	"github.com/sasha-s/go-deadlock"
	"github.com/spf13/viper"
)

var (
	ErrUnknownFaction = errors.New("unknown faction")
	ErrNoLocalWallet  = errors.New("the loaded wallet plugin cannot be approved from here")
)

// Engine is one running shell: the handshake core plus the session, governance and reference data
// the views read.
type Engine struct {
	conf  *viper.Viper
	clock clock.Clock

	Target     *bridge.Target
	Trigger    *bridge.ProxyTrigger
	Loader     *bridge.Loader
	Controller *connection.Controller
	Session    *session.Mind
	Governance *governance.Mind
	Factions   *factions.Registry
	Activity   *activity.Feed

	listener   *eventcatcher.Listener
	metrics    *metrics
	cycleStart time.Time

	mutex   *deadlock.Mutex
	view    library.View
	started bool
	cancel  context.CancelFunc
	wait    *deadlock.WaitGroup
	sleep   chan struct{}
}

func New(conf *viper.Viper, c clock.Clock) (*Engine, error) {
	registry, err := factions.Load(conf.GetInt64("growthSeed"))
	if err != nil {
		return nil, err
	}
	e := &Engine{
		conf:       conf,
		clock:      c,
		Target:     bridge.NewTarget(),
		Trigger:    bridge.NewProxyTrigger(),
		Session:    session.NewMind(session.RulesFromConfig(conf), c),
		Governance: governance.NewMind(c),
		Factions:   registry,
		Activity:   activity.NewFeed(conf.GetInt64("growthSeed"), c),
		metrics:    newMetrics(),
		cycleStart: c.Now(),
		mutex:      &deadlock.Mutex{},
		view:       library.ViewLanding,
		wait:       &deadlock.WaitGroup{},
		sleep:      make(chan struct{}, 1),
	}
	e.Loader = bridge.NewLoader(e.Target, e.Trigger)
	e.Loader.Clock = c
	e.Loader.Delay = conf.GetDuration("pluginLoadDelay")
	e.Controller = connection.New(e.Trigger, c, conf.GetDuration("connectTimeout"), conf.GetString("fallbackWalletID"))
	e.listener = eventcatcher.NewListener(e.Target, conf.GetStringSlice("successSignals"), conf.GetString("fallbackWalletID"))
	return e, nil
}

// Start mounts the engine: the wallet plugin is scheduled for injection, the success signals are
// listened for and the activity feed starts ticking.
func (e *Engine) Start() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.started {
		return
	}
	e.started = true
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	e.Loader.EnsureLoaded(e.conf.GetString("pluginPath"), e.conf.GetString("pluginFallbackPath"))
	e.listener.Listen(e.onSuccess)
	e.Controller.Subscribe(e.onStateChange)
	eventcatcher.WatchSleep(func() {
		select {
		case e.sleep <- struct{}{}:
		default:
		}
	})

	e.wait.Add(2)
	go func() {
		defer e.wait.Done()
		e.Activity.Run(ctx, activity.TickInterval, nil)
	}()
	go e.handleEvents(ctx)
	library.LogCLI("Engine has started", 4)
}

func (e *Engine) handleEvents(ctx context.Context) {
	defer e.wait.Done()
L:
	for {
		select {
		case <-e.sleep:
			if e.Controller.Cancel() {
				library.LogCLI("system sleep detected, cancelling wallet handshake", 2)
				e.metrics.handshake("cancelled")
			}
		case <-ctx.Done():
			break L
		case <-actors.GetTerminateChan():
			break L
		}
	}
}

// Close tears everything down. The engine cannot be restarted.
func (e *Engine) Close() {
	e.mutex.Lock()
	cancel := e.cancel
	e.mutex.Unlock()
	if cancel != nil {
		cancel()
	}
	e.listener.Close()
	e.Loader.Teardown()
	e.Controller.Close()
	e.wait.Wait()
	library.LogCLI("Engine has shut down", 4)
}

func (e *Engine) onSuccess(walletID library.Account, signal string) {
	if !e.Controller.OnExternalSuccess(walletID) {
		library.LogCLI("ignoring "+signal+" outside of a handshake", 3)
		return
	}
	e.metrics.handshake("connected")
	e.Session.Login(walletID)
	e.setView(library.ViewDashboard)
}

func (e *Engine) onStateChange(s connection.State) {
	if s.Phase == connection.Failed {
		e.metrics.handshake(s.Reason)
	}
}

func (e *Engine) Connect() bool {
	if !e.Controller.Start() {
		return false
	}
	e.metrics.handshake("started")
	return true
}

func (e *Engine) Retry() bool {
	if !e.Controller.Retry() {
		return false
	}
	e.metrics.handshake("retried")
	return true
}

func (e *Engine) CancelConnect() bool {
	if !e.Controller.Cancel() {
		return false
	}
	e.metrics.handshake("cancelled")
	return true
}

// Disconnect ends the session and returns to the landing view. A handshake still in flight is
// cancelled so it cannot log in afterwards.
func (e *Engine) Disconnect() {
	if !e.Controller.Disconnect() {
		e.CancelConnect()
	}
	e.Session.Reset()
	e.Governance.ResetVotes()
	e.setView(library.ViewLanding)
}

// Approve plays the wallet's part when the loaded plugin is a local one.
func (e *Engine) Approve(detail json.RawMessage) error {
	local, ok := e.Loader.Instance().(*bridge.LocalBridge)
	if !ok {
		return ErrNoLocalWallet
	}
	local.Approve(detail)
	return nil
}

func (e *Engine) View() library.View {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.view
}

// Navigate switches view. The dashboard needs a connected wallet.
func (e *Engine) Navigate(v library.View) error {
	if v == library.ViewDashboard && !e.Session.Snapshot().Connected() {
		return session.ErrNotConnected
	}
	e.setView(v)
	return nil
}

func (e *Engine) setView(v library.View) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.view = v
}

func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

func (e *Engine) Cycle() cycle.Countdown {
	return cycle.CountdownAt(e.cycleStart, e.clock.Now(), cycle.Duration(e.conf.GetInt("cycleDays")))
}

func (e *Engine) Lock(amount float64) (session.Session, error) {
	s, err := e.Session.Lock(amount)
	e.metrics.action("lock", err)
	return s, err
}

func (e *Engine) Unlock(amount float64) (float64, session.Session, error) {
	penalty, s, err := e.Session.Unlock(amount)
	e.metrics.action("unlock", err)
	return penalty, s, err
}

func (e *Engine) CreateFaction(name string, method session.CreationMethod) (session.Session, error) {
	s, err := e.Session.CreateFaction(name, method)
	e.metrics.action("create", err)
	return s, err
}

func (e *Engine) JoinFaction(id library.FactionID) (session.Session, error) {
	f, ok := e.Factions.Find(id)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownFaction, id)
		e.metrics.action("join", err)
		return e.Session.Snapshot(), err
	}
	s, err := e.Session.JoinFaction(f)
	e.metrics.action("join", err)
	return s, err
}

func (e *Engine) LeaveFaction() (session.Session, error) {
	s, err := e.Session.LeaveFaction()
	e.metrics.action("leave", err)
	return s, err
}

func (e *Engine) SimulateInvite() (session.Session, error) {
	s, err := e.Session.SimulateInvite()
	e.metrics.action("invite", err)
	return s, err
}

func (e *Engine) InviteLink() (session.Invite, error) {
	return e.Session.InviteLink(e.conf.GetString("appDomain"))
}

func (e *Engine) RedeemInvite(code string) (session.Session, error) {
	s, err := e.Session.RedeemInvite(code)
	e.metrics.action("redeem", err)
	return s, err
}

func (e *Engine) Vote(id library.ProposalID, side governance.Side) (governance.Proposal, error) {
	p, err := e.Governance.Vote(e.Session.Snapshot(), id, side)
	e.metrics.action("vote", err)
	return p, err
}
