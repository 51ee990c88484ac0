package session

import (
	"errors"

	"factionengine/engine/library"
	"github.com/spf13/viper"
)

var (
	ErrNotConnected        = errors.New("no wallet is connected")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientBalance = errors.New("amount exceeds available balance")
	ErrInsufficientLocked  = errors.New("amount exceeds locked balance")
	ErrEmptyName           = errors.New("faction name is empty")
	ErrUnknownMethod       = errors.New("unknown faction creation method")
	ErrInsufficientInvites = errors.New("not enough invites to create a faction")
	ErrAlreadyInFaction    = errors.New("already a member of a faction")
	ErrNotInFaction        = errors.New("not a member of a faction")
	ErrStillLocked         = errors.New("unlock everything before leaving a faction")
	ErrInviteMismatch      = errors.New("invite belongs to a different wallet")
)

// Session is the connected wallet's in-memory state. The zero value is the disconnected session.
type Session struct {
	WalletID        library.Account
	Balance         float64
	LockedAmount    float64
	FactionID       library.FactionID
	FactionName     string
	FactionRank     int64
	EstimatedReward float64
	InvitesCount    int64
}

func (s Session) Connected() bool {
	return s.WalletID != ""
}

func (s Session) InFaction() bool {
	return s.FactionID != ""
}

// CreationMethod is how a new faction is paid for.
type CreationMethod string

const (
	MethodFee    CreationMethod = "fee"
	MethodInvite CreationMethod = "invite"
)

type Tab string

const (
	TabLock   Tab = "lock"
	TabUnlock Tab = "unlock"
)

// Quote previews a lock or unlock before it is submitted.
type Quote struct {
	Amount  float64
	Penalty float64
	Receive float64
	Valid   bool
}

type Invite struct {
	URL  string
	Code string // bech32, decodes back to URL
}

// Rules are the protocol numbers a session is played by.
type Rules struct {
	StartingBalance float64
	StartingInvites int64
	CreationFee     float64
	InvitesRequired int64
	UnlockPenalty   float64
	NewFactionRank  int64
}

func RulesFromConfig(conf *viper.Viper) Rules {
	return Rules{
		StartingBalance: conf.GetFloat64("startingBalance"),
		StartingInvites: conf.GetInt64("startingInvites"),
		CreationFee:     conf.GetFloat64("creationFee"),
		InvitesRequired: conf.GetInt64("invitesRequired"),
		UnlockPenalty:   conf.GetFloat64("unlockPenalty"),
		NewFactionRank:  conf.GetInt64("newFactionRank"),
	}
}
