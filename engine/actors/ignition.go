package actors

import (
	"time"

	"github.com/nbd-wtf/go-nostr"
)

// ConnectRequest builds the signed event a relay-backed wallet plugin answers. The attempt tag
// lets the wallet echo which handshake it is approving; the p tag is where replies are addressed.
func ConnectRequest(kind int, attempt string, appDomain string) nostr.Event {
	e := nostr.Event{
		PubKey:    MyWallet().Account,
		CreatedAt: nostr.Timestamp(time.Now().Unix()),
		Kind:      kind,
		Tags: nostr.Tags{
			nostr.Tag{"attempt", attempt},
			nostr.Tag{"p", MyWallet().Account},
			nostr.Tag{"origin", appDomain},
		},
		Content: "wallet connect request",
	}
	e.ID = e.GetID()
	e.Sign(MyWallet().PrivateKey)
	return e
}
