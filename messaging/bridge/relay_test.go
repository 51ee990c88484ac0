package bridge

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"factionengine/engine/actors"
	"factionengine/engine/library"
	"factionengine/state/connection"
	"github.com/benbjohnson/clock"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type relaySub struct {
	id    string
	kinds []int
	conn  net.Conn
}

// testRelay is a minimal nostr relay: it stores every EVENT, answers REQ with EOSE and, when ack is
// set, answers EVENT with OK.
type testRelay struct {
	url    string
	ack    bool
	mu     *deadlock.Mutex
	events []nostr.Event
	subs   []relaySub
	conns  []net.Conn
}

func newTestRelay(t *testing.T, ack bool) *testRelay {
	t.Helper()
	r := &testRelay{ack: ack, mu: &deadlock.Mutex{}}
	srv := httptest.NewServer(http.HandlerFunc(r.serve))
	r.url = "ws" + strings.TrimPrefix(srv.URL, "http")
	t.Cleanup(func() {
		r.mu.Lock()
		for _, c := range r.conns {
			c.Close()
		}
		r.mu.Unlock()
		srv.Close()
	})
	return r
}

func (r *testRelay) serve(w http.ResponseWriter, req *http.Request) {
	conn, _, _, err := ws.UpgradeHTTP(req, w)
	if err != nil {
		return
	}
	r.mu.Lock()
	r.conns = append(r.conns, conn)
	r.mu.Unlock()
	defer conn.Close()
	for {
		data, _, err := wsutil.ReadClientData(conn)
		if err != nil {
			return
		}
		var msg []json.RawMessage
		if json.Unmarshal(data, &msg) != nil || len(msg) < 2 {
			continue
		}
		var label string
		json.Unmarshal(msg[0], &label)
		switch label {
		case "REQ":
			var id string
			json.Unmarshal(msg[1], &id)
			sub := relaySub{id: id, conn: conn}
			for _, raw := range msg[2:] {
				var f struct {
					Kinds []int `json:"kinds"`
				}
				json.Unmarshal(raw, &f)
				sub.kinds = append(sub.kinds, f.Kinds...)
			}
			r.mu.Lock()
			r.subs = append(r.subs, sub)
			r.mu.Unlock()
			r.write(conn, []interface{}{"EOSE", id})
		case "EVENT":
			var e nostr.Event
			if json.Unmarshal(msg[1], &e) != nil {
				continue
			}
			r.mu.Lock()
			r.events = append(r.events, e)
			r.mu.Unlock()
			if r.ack {
				r.write(conn, []interface{}{"OK", e.ID, true, ""})
			}
		}
	}
}

func (r *testRelay) write(conn net.Conn, msg []interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	wsutil.WriteServerMessage(conn, ws.OpText, data)
}

// Kind returns the stored events of the given kind, oldest first.
func (r *testRelay) Kind(kind int) []nostr.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []nostr.Event
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (r *testRelay) subscriptionFor(kind int) (relaySub, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		for _, k := range s.kinds {
			if k == kind {
				return s, true
			}
		}
	}
	return relaySub{}, false
}

// signedReply is a wallet answering attempt for the engine's pubkey.
func signedReply(t *testing.T, attempt, content string) nostr.Event {
	t.Helper()
	sk := nostr.GeneratePrivateKey()
	pk, err := nostr.GetPublicKey(sk)
	require.NoError(t, err)
	e := nostr.Event{
		PubKey:    pk,
		CreatedAt: nostr.Timestamp(time.Now().Unix()),
		Kind:      DefaultReplyKind,
		Tags: nostr.Tags{
			nostr.Tag{"p", actors.MyWallet().Account},
			nostr.Tag{"t", "approved"},
			nostr.Tag{"attempt", attempt},
		},
		Content: content,
	}
	e.ID = e.GetID()
	require.NoError(t, e.Sign(sk))
	return e
}

func slowly(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 3*time.Second, 5*time.Millisecond)
}

func attachedRelayBridge(t *testing.T, relay *testRelay) *RelayBridge {
	t.Helper()
	b := NewRelayBridge(Manifest{
		Transport:   TransportRelay,
		Relays:      []string{relay.url},
		RequestKind: DefaultRequestKind,
		ReplyKind:   DefaultReplyKind,
		Signals:     map[string]string{"approved": actors.SignalWalletConnectSuccess},
	})
	require.NoError(t, b.Attach(context.Background()))
	t.Cleanup(func() { b.Close() })
	return b
}

func TestRelayBridgeRoundTrip(t *testing.T) {
	relay := newTestRelay(t, true)
	b := attachedRelayBridge(t, relay)
	signals := make(chan Signal, 1)
	b.OnSuccess(func(s Signal) { signals <- s })

	require.NoError(t, b.Trigger())
	slowly(t, func() bool { return len(relay.Kind(DefaultRequestKind)) == 1 })
	first := relay.Kind(DefaultRequestKind)[0]
	ok, err := first.CheckSignature()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, library.TaggedWith(first, "p", actors.MyWallet().Account))

	require.NoError(t, b.Trigger())
	slowly(t, func() bool {
		return len(relay.Kind(DefaultRequestKind)) == 2 && len(relay.Kind(5)) == 1
	})
	assert.True(t, library.TaggedWith(relay.Kind(5)[0], "e", first.ID), "the superseded request is retracted")

	second := relay.Kind(DefaultRequestKind)[1]
	attempt, ok := library.GetFirstTag(second, "attempt")
	require.True(t, ok)
	var sub relaySub
	slowly(t, func() bool {
		sub, ok = relay.subscriptionFor(DefaultReplyKind)
		return ok
	})
	relay.write(sub.conn, []interface{}{"EVENT", sub.id, signedReply(t, attempt, `{"address":"rRelayWallet"}`)})

	select {
	case s := <-signals:
		assert.Equal(t, actors.SignalWalletConnectSuccess, s.Name)
		assert.JSONEq(t, `{"address":"rRelayWallet"}`, string(s.Detail))
	case <-time.After(3 * time.Second):
		t.Fatal("the wallet reply never reached OnSuccess")
	}
}

func TestStartDoesNotWaitForTheRelay(t *testing.T) {
	relay := newTestRelay(t, false)
	b := attachedRelayBridge(t, relay)
	trigger := NewProxyTrigger()
	trigger.Bind(func() {
		require.NoError(t, b.Trigger())
	})
	c := connection.New(trigger, clock.NewMock(), time.Minute, actors.FallbackWalletID)
	t.Cleanup(c.Close)

	began := time.Now()
	require.True(t, c.Start())
	assert.Less(t, time.Since(began), time.Second)
	slowly(t, func() bool { return len(relay.Kind(DefaultRequestKind)) == 1 })

	require.True(t, c.Cancel())
	began = time.Now()
	require.True(t, c.Start(), "a second attempt also retracts the first request")
	assert.Less(t, time.Since(began), time.Second)
	slowly(t, func() bool { return len(relay.Kind(5)) == 1 })
}

func TestRelayReplyToSignal(t *testing.T) {
	b := NewRelayBridge(Manifest{Signals: map[string]string{"approved": "wallet-connect-success"}})
	b.attempt = "a1"
	us := nostr.Tag{"p", actors.MyWallet().Account}

	s, ok := b.toSignal(nostr.Event{
		Tags:    nostr.Tags{us, nostr.Tag{"t", "approved"}, nostr.Tag{"attempt", "a1"}},
		Content: `{"address":"rReply"}`,
	})
	assert.True(t, ok)
	assert.Equal(t, "wallet-connect-success", s.Name)
	assert.JSONEq(t, `{"address":"rReply"}`, string(s.Detail))

	s, ok = b.toSignal(nostr.Event{Tags: nostr.Tags{us, nostr.Tag{"t", "xrpl-wallet-connected"}}, Content: "approved!"})
	assert.True(t, ok, "replies without an attempt tag are accepted")
	assert.Equal(t, "xrpl-wallet-connected", s.Name)
	assert.Nil(t, s.Detail, "non-json content carries no detail")

	_, ok = b.toSignal(nostr.Event{Tags: nostr.Tags{us, nostr.Tag{"t", "approved"}, nostr.Tag{"attempt", "old"}}})
	assert.False(t, ok, "replies to an earlier attempt are dropped")

	_, ok = b.toSignal(nostr.Event{Tags: nostr.Tags{us}, Content: `{}`})
	assert.False(t, ok, "replies need a t tag")

	_, ok = b.toSignal(nostr.Event{Tags: nostr.Tags{nostr.Tag{"p", "someone else"}, nostr.Tag{"t", "approved"}}})
	assert.False(t, ok, "replies addressed to another engine are ignored")
}

func TestRelayBridgeCloseBeforeAttach(t *testing.T) {
	b := NewRelayBridge(Manifest{})
	assert.NoError(t, b.Close())
	assert.ErrorIs(t, b.Trigger(), ErrNotAttached)
}
