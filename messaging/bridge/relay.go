package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"factionengine/engine/actors"
	"factionengine/engine/helpers"
	"factionengine/engine/library"
	"github.com/google/uuid"
	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"
)

const publishTimeout = 10 * time.Second

// RelayBridge talks to a remote wallet over nostr relays. Trigger publishes a signed connect
// request, the wallet answers with a reply event addressed to our pubkey.
type RelayBridge struct {
	mu       *deadlock.Mutex
	manifest Manifest
	relay    *nostr.Relay
	ctx      context.Context
	cancel   context.CancelFunc
	attempt  string
	request  library.Sha256 // last connect request we published
	handlers *handlers
}

func NewRelayBridge(m Manifest) *RelayBridge {
	return &RelayBridge{mu: &deadlock.Mutex{}, manifest: m, handlers: newHandlers()}
}

func (b *RelayBridge) Attach(ctx context.Context) error {
	urls := b.manifest.Relays
	if len(urls) == 0 {
		urls = actors.MakeOrGetConfig().GetStringSlice("relays")
	}
	var relay *nostr.Relay
	for _, url := range urls {
		r, err := nostr.RelayConnect(ctx, url)
		if err != nil {
			library.LogCLI(fmt.Sprintf("could not connect to relay %s: %s", url, err), 2)
			continue
		}
		relay = r
		break
	}
	if relay == nil {
		return ErrNoRelay
	}
	filters := nostr.Filters{nostr.Filter{
		Kinds: []int{b.manifest.ReplyKind},
		Tags:  map[string][]string{"p": {actors.MyWallet().Account}},
	}}
	subCtx, cancel := context.WithCancel(ctx)
	sub, err := relay.Subscribe(subCtx, filters)
	if err != nil {
		cancel()
		relay.Close()
		return fmt.Errorf("subscribe to wallet replies on %s: %w", relay.URL, err)
	}
	b.mu.Lock()
	b.relay = relay
	b.ctx = subCtx
	b.cancel = cancel
	b.mu.Unlock()
	library.LogCLI("Listening for wallet replies on "+relay.URL, 4)
	go b.consume(subCtx, sub.Events)
	return nil
}

func (b *RelayBridge) consume(ctx context.Context, events chan *nostr.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok || ev == nil {
				return
			}
			if ok, _ := ev.CheckSignature(); !ok {
				continue
			}
			if s, ok := b.toSignal(*ev); ok {
				b.handlers.emit(s)
			}
		}
	}
}

// toSignal converts a wallet reply addressed to us. Replies that name a different attempt are stale
// and dropped, replies without an attempt tag are accepted.
func (b *RelayBridge) toSignal(ev nostr.Event) (Signal, bool) {
	if !library.TaggedWith(ev, "p", actors.MyWallet().Account) {
		return Signal{}, false
	}
	topic, ok := library.GetFirstTag(ev, "t")
	if !ok {
		library.LogCLI("wallet reply "+ev.ID+" has no t tag", 3)
		return Signal{}, false
	}
	b.mu.Lock()
	current := b.attempt
	b.mu.Unlock()
	if attempt, ok := library.GetFirstTag(ev, "attempt"); ok && attempt != current {
		return Signal{}, false
	}
	s := Signal{Name: b.manifest.SignalName(topic)}
	if json.Valid([]byte(ev.Content)) {
		s.Detail = json.RawMessage(ev.Content)
	}
	return s, true
}

// Trigger signs a new connect request and returns. Publishing it, and retracting the request it
// supersedes, happens in the background until the relay answers or publishTimeout passes.
func (b *RelayBridge) Trigger() error {
	b.mu.Lock()
	relay, ctx := b.relay, b.ctx
	if relay == nil {
		b.mu.Unlock()
		return ErrNotAttached
	}
	previous := b.request
	b.attempt = uuid.NewString()
	e := actors.ConnectRequest(b.manifest.RequestKind, b.attempt, actors.MakeOrGetConfig().GetString("appDomain"))
	b.request = e.ID
	b.mu.Unlock()
	go b.publish(ctx, relay, e, previous)
	return nil
}

func (b *RelayBridge) publish(ctx context.Context, relay *nostr.Relay, e nostr.Event, previous library.Sha256) {
	sane := library.ValidateSaneExecutionTime()
	defer sane()
	if previous != "" {
		retractCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		if _, err := relay.Publish(retractCtx, helpers.RetractEvent(previous, "superseded")); err != nil {
			library.LogCLI(fmt.Sprintf("could not retract connect request %s: %s", previous, err), 2)
		}
		cancel()
	}
	requestCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if _, err := relay.Publish(requestCtx, e); err != nil {
		library.LogCLI(fmt.Errorf("publish connect request to %s: %w", relay.URL, err), 1)
	}
}

func (b *RelayBridge) OnSuccess(fn func(Signal)) func() {
	return b.handlers.add(fn)
}

func (b *RelayBridge) Close() error {
	b.mu.Lock()
	relay, cancel := b.relay, b.cancel
	b.relay, b.ctx, b.cancel = nil, nil, nil
	b.mu.Unlock()
	b.handlers.clear()
	if cancel != nil {
		cancel()
	}
	if relay != nil {
		return relay.Close()
	}
	return nil
}
