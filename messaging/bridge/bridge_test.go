package bridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetDispatchesByName(t *testing.T) {
	target := NewTarget()
	var got []Signal
	off := target.Subscribe("wallet-connect-success", func(s Signal) { got = append(got, s) })

	assert.Equal(t, 0, target.Dispatch(Signal{Name: "xrpl-wallet-connected"}))
	assert.Equal(t, 1, target.Dispatch(Signal{Name: "wallet-connect-success", Detail: json.RawMessage(`{"address":"r1"}`)}))
	require.Len(t, got, 1)
	assert.JSONEq(t, `{"address":"r1"}`, string(got[0].Detail))

	off()
	assert.Equal(t, 0, target.Dispatch(Signal{Name: "wallet-connect-success"}))
	assert.Len(t, got, 1)
}

func TestProxyTriggerWithoutBindingIsNoop(t *testing.T) {
	p := NewProxyTrigger()
	assert.False(t, p.Bound())
	assert.False(t, p.Activate())

	first, second := 0, 0
	p.Bind(func() { first++ })
	assert.True(t, p.Activate())
	p.Bind(func() { second++ })
	assert.True(t, p.Activate())
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)

	p.Unbind()
	assert.False(t, p.Activate())
	assert.Equal(t, 1, second)
}

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(`
name: core-plugin
version: "2.5"
transport: local
signals:
  approved: xrpl-wallet-connected
`))
	require.NoError(t, err)
	assert.Equal(t, TransportLocal, m.Transport)
	assert.Equal(t, DefaultRequestKind, m.RequestKind)
	assert.Equal(t, DefaultReplyKind, m.ReplyKind)
	assert.Equal(t, "xrpl-wallet-connected", m.SignalName("approved"))
	assert.Equal(t, "wallet-connect-success", m.SignalName("wallet-connect-success"))

	m, err = ParseManifest([]byte("name: bare\n"))
	require.NoError(t, err)
	assert.Equal(t, TransportRelay, m.Transport)

	_, err = ParseManifest([]byte("transport: carrier-pigeon\n"))
	assert.ErrorIs(t, err, ErrUnknownTransport)

	_, err = ParseManifest([]byte("name: [unterminated"))
	assert.Error(t, err)
}

func TestNewBridgePicksTransport(t *testing.T) {
	b, err := NewBridge(Manifest{Transport: TransportLocal})
	require.NoError(t, err)
	assert.IsType(t, &LocalBridge{}, b)

	b, err = NewBridge(Manifest{Transport: TransportRelay})
	require.NoError(t, err)
	assert.IsType(t, &RelayBridge{}, b)
	assert.ErrorIs(t, b.Trigger(), ErrNotAttached)

	_, err = NewBridge(Manifest{Transport: "smoke"})
	assert.ErrorIs(t, err, ErrUnknownTransport)
}
