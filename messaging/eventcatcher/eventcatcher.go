package eventcatcher

import (
	"encoding/json"
	"strings"

	"factionengine/engine/library"
	"factionengine/messaging/bridge"
	"github.com/sasha-s/go-deadlock"
)

// walletFields are the payload keys a wallet identifier may arrive under, in order of preference.
var walletFields = []string{"address", "walletAddress", "account"}

// Listener subscribes to the success signals on a Target for as long as it is listening.
type Listener struct {
	mu       *deadlock.Mutex
	target   *bridge.Target
	names    []string
	fallback library.Account
	offs     []func()
}

func NewListener(target *bridge.Target, names []string, fallback library.Account) *Listener {
	return &Listener{
		mu:       &deadlock.Mutex{},
		target:   target,
		names:    names,
		fallback: fallback,
	}
}

// Listen calls fn with the wallet id and signal name of every success signal. Calling Listen again
// replaces the previous subscription.
func (l *Listener) Listen(fn func(walletID library.Account, signal string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeLocked()
	for _, name := range l.names {
		l.offs = append(l.offs, l.target.Subscribe(name, func(s bridge.Signal) {
			fn(ExtractWalletID(s.Detail, l.fallback), s.Name)
		}))
	}
}

func (l *Listener) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeLocked()
}

func (l *Listener) closeLocked() {
	for _, off := range l.offs {
		off()
	}
	l.offs = nil
}

// ExtractWalletID returns the wallet identifier carried by detail. Anything missing, empty or
// malformed yields fallback; the handshake always completes.
func ExtractWalletID(detail json.RawMessage, fallback library.Account) library.Account {
	if len(detail) == 0 {
		library.LogCLI("success signal carried no payload, using fallback wallet id", 3)
		return fallback
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(detail, &fields); err != nil {
		library.LogCLI("malformed success payload: "+err.Error(), 3)
		return fallback
	}
	for _, key := range walletFields {
		if v, ok := fields[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	library.LogCLI("success payload has no wallet id, using fallback", 3)
	return fallback
}
