package eventcatcher

import (
	"encoding/json"
	"testing"

	"factionengine/messaging/bridge"
	"github.com/stretchr/testify/assert"
)

const fallback = "rHb9CJAWyB4rj91VRWn96Dzk4115143"

func TestExtractWalletID(t *testing.T) {
	cases := map[string]string{
		`{"address":"rAAAAAAAAAAAAAAAAAAAAAAAAAA1111"}`: "rAAAAAAAAAAAAAAAAAAAAAAAAAA1111",
		`{"walletAddress":"rWallet"}`:                   "rWallet",
		`{"account":" rAccount "}`:                      "rAccount",
		`{"address":"rFirst","account":"rSecond"}`:      "rFirst",
		`{"address":""}`:                                fallback,
		`{"address":42}`:                                fallback,
		`{"other":"x"}`:                                 fallback,
		`["rList"]`:                                     fallback,
		`not json`:                                      fallback,
		``:                                              fallback,
	}
	for detail, want := range cases {
		assert.Equal(t, want, ExtractWalletID(json.RawMessage(detail), fallback), detail)
	}
	assert.Equal(t, fallback, ExtractWalletID(nil, fallback))
}

func TestListenerForwardsEverySignalName(t *testing.T) {
	target := bridge.NewTarget()
	l := NewListener(target, []string{"xrpl-wallet-connected", "wallet-connect-success"}, fallback)

	type hit struct{ wallet, signal string }
	var hits []hit
	l.Listen(func(walletID, signal string) { hits = append(hits, hit{walletID, signal}) })

	target.Dispatch(bridge.Signal{Name: "xrpl-wallet-connected", Detail: json.RawMessage(`{"address":"r1"}`)})
	target.Dispatch(bridge.Signal{Name: "wallet-connect-success"})
	target.Dispatch(bridge.Signal{Name: "something-else", Detail: json.RawMessage(`{"address":"r2"}`)})

	assert.Equal(t, []hit{{"r1", "xrpl-wallet-connected"}, {fallback, "wallet-connect-success"}}, hits)

	l.Close()
	assert.Equal(t, 0, target.Dispatch(bridge.Signal{Name: "xrpl-wallet-connected"}))
	assert.Len(t, hits, 2)
}

func TestListenReplacesSubscription(t *testing.T) {
	target := bridge.NewTarget()
	l := NewListener(target, []string{"wallet-connect-success"}, fallback)
	first, second := 0, 0
	l.Listen(func(string, string) { first++ })
	l.Listen(func(string, string) { second++ })

	assert.Equal(t, 1, target.Dispatch(bridge.Signal{Name: "wallet-connect-success"}))
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}
