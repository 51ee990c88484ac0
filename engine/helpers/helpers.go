package helpers

import (
	"time"

	"factionengine/engine/actors"
	"factionengine/engine/library"
	"github.com/nbd-wtf/go-nostr"
)

// RetractEvent builds a signed deletion (kind 5) for an event we published earlier.
func RetractEvent(id library.Sha256, reason string) (r nostr.Event) {
	r = nostr.Event{
		PubKey:    actors.MyWallet().Account,
		CreatedAt: nostr.Timestamp(time.Now().Unix()),
		Kind:      5,
		Tags: nostr.Tags{nostr.Tag{
			"e", id},
		},
		Content: reason,
	}
	r.ID = r.GetID()
	r.Sign(actors.MyWallet().PrivateKey)
	return
}
