package bridge

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrNotAttached      = errors.New("wallet bridge is not attached")
	ErrNoRelay          = errors.New("no relay could be reached")
	ErrUnknownTransport = errors.New("unknown wallet plugin transport")
)

// WalletBridge is whatever the wallet plugin instantiates. The connection controller never sees it
// directly, it only activates the ProxyTrigger the bridge is bound to.
type WalletBridge interface {
	Attach(ctx context.Context) error
	Trigger() error
	// OnSuccess registers fn for every success signal the bridge emits.
	OnSuccess(fn func(Signal)) (unsubscribe func())
	Close() error
}

// Signal is a named success event, Detail is whatever payload the wallet sent (possibly nothing).
type Signal struct {
	Name   string
	Detail json.RawMessage
}

// Factory builds a bridge from a parsed plugin manifest.
type Factory func(m Manifest) (WalletBridge, error)

// NewBridge is the default Factory.
func NewBridge(m Manifest) (WalletBridge, error) {
	switch m.Transport {
	case TransportRelay:
		return NewRelayBridge(m), nil
	case TransportLocal:
		return NewLocalBridge(m), nil
	}
	return nil, ErrUnknownTransport
}
