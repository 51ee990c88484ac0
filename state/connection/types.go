package connection

import (
	"time"

	"factionengine/engine/library"
)

type Phase string

const (
	Idle       Phase = "IDLE"
	Connecting Phase = "CONNECTING"
	Connected  Phase = "CONNECTED"
	Failed     Phase = "FAILED"
)

const (
	ReasonTimeout  = "timeout"
	TimeoutMessage = "Connection timed out. Please make sure you approved the request in your wallet."
)

// State is a snapshot of the handshake. Only the fields relevant to Phase are set.
type State struct {
	Phase     Phase
	Attempt   string // one id per Connecting period
	StartedAt time.Time
	WalletID  library.Account
	Reason    string
	Message   string
	CanRetry  bool
}

// Trigger is the activation point the wallet bridge binds to. Activate reports whether anything
// was bound.
type Trigger interface {
	Activate() bool
}
