package session

import (
	"fmt"
	"strings"

	"factionengine/engine/actors"
	"factionengine/engine/library"
	"factionengine/state/factions"
	"github.com/benbjohnson/clock"
	"github.com/sasha-s/go-deadlock"
)

// Mind owns the one WalletSession. Every mutation validates first and leaves the session untouched
// when it returns an error.
type Mind struct {
	mutex   *deadlock.Mutex
	rules   Rules
	clock   clock.Clock
	session Session
}

func NewMind(rules Rules, c clock.Clock) *Mind {
	return &Mind{mutex: &deadlock.Mutex{}, rules: rules, clock: c}
}

func (m *Mind) Snapshot() Session {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.session
}

// Login replaces the session with a fresh one for walletID.
func (m *Mind) Login(walletID library.Account) Session {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.session = Session{
		WalletID:     walletID,
		Balance:      m.rules.StartingBalance,
		InvitesCount: m.rules.StartingInvites,
	}
	library.LogCLI(fmt.Sprintf("Session started for %s with %s XRP", walletID, library.FormatXRP(m.session.Balance)), 4)
	return m.session
}

// Reset zeroes the session, as on disconnect.
func (m *Mind) Reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.session = Session{}
}

func (m *Mind) Lock(amount float64) (Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if !m.session.Connected() {
		return m.session, ErrNotConnected
	}
	if amount <= 0 {
		return m.session, ErrInvalidAmount
	}
	if amount > m.session.Balance {
		return m.session, ErrInsufficientBalance
	}
	m.session.Balance -= amount
	m.session.LockedAmount += amount
	return m.session, nil
}

// Unlock returns amount minus the early withdrawal penalty to the balance.
func (m *Mind) Unlock(amount float64) (penalty float64, s Session, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if !m.session.Connected() {
		return 0, m.session, ErrNotConnected
	}
	if amount <= 0 {
		return 0, m.session, ErrInvalidAmount
	}
	if amount > m.session.LockedAmount {
		return 0, m.session, ErrInsufficientLocked
	}
	penalty = amount * m.rules.UnlockPenalty
	m.session.Balance += amount - penalty
	m.session.LockedAmount -= amount
	return penalty, m.session, nil
}

// Quote previews tab for amount without touching the session.
func (m *Mind) Quote(tab Tab, amount float64) Quote {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	q := Quote{Amount: amount, Receive: amount}
	switch tab {
	case TabLock:
		q.Valid = amount > 0 && amount <= m.session.Balance
	case TabUnlock:
		q.Penalty = amount * m.rules.UnlockPenalty
		q.Receive = amount - q.Penalty
		q.Valid = amount > 0 && amount <= m.session.LockedAmount
	}
	return q
}

func (m *Mind) CreateFaction(name string, method CreationMethod) (Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if !m.session.Connected() {
		return m.session, ErrNotConnected
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return m.session, ErrEmptyName
	}
	if m.session.InFaction() {
		return m.session, ErrAlreadyInFaction
	}
	next := m.session
	switch method {
	case MethodFee:
		if next.Balance < m.rules.CreationFee {
			return m.session, ErrInsufficientBalance
		}
		next.Balance -= m.rules.CreationFee
	case MethodInvite:
		if next.InvitesCount < m.rules.InvitesRequired {
			return m.session, ErrInsufficientInvites
		}
	default:
		return m.session, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	next.FactionID = fmt.Sprintf("f_%d", m.clock.Now().UnixMilli())
	next.FactionName = name
	next.FactionRank = m.rules.NewFactionRank
	m.session = next
	return m.session, nil
}

func (m *Mind) JoinFaction(f factions.Faction) (Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if !m.session.Connected() {
		return m.session, ErrNotConnected
	}
	if m.session.InFaction() {
		return m.session, ErrAlreadyInFaction
	}
	m.session.FactionID = f.ID
	m.session.FactionName = f.Name
	m.session.FactionRank = f.Rank
	return m.session, nil
}

// LeaveFaction is only possible with nothing locked.
func (m *Mind) LeaveFaction() (Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if !m.session.Connected() {
		return m.session, ErrNotConnected
	}
	if !m.session.InFaction() {
		return m.session, ErrNotInFaction
	}
	if m.session.LockedAmount > 0 {
		return m.session, ErrStillLocked
	}
	m.session.FactionID = ""
	m.session.FactionName = ""
	m.session.FactionRank = 0
	m.session.EstimatedReward = 0
	return m.session, nil
}

// SimulateInvite credits one invite, as if a friend joined through the invite link.
func (m *Mind) SimulateInvite() (Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if !m.session.Connected() {
		return m.session, ErrNotConnected
	}
	m.session.InvitesCount++
	return m.session, nil
}

func (m *Mind) InviteLink(domain string) (Invite, error) {
	s := m.Snapshot()
	if !s.Connected() {
		return Invite{}, ErrNotConnected
	}
	link := actors.InviteURL(domain, s.WalletID)
	code, err := actors.EncodeInvite(link)
	if err != nil {
		return Invite{}, fmt.Errorf("encode invite: %w", err)
	}
	return Invite{URL: link, Code: code}, nil
}

// RedeemInvite credits an invite when code (a bech32 code or plain link) refers to this wallet.
func (m *Mind) RedeemInvite(code string) (Session, error) {
	ref, err := actors.DecodeInvite(code)
	if err != nil {
		return m.Snapshot(), err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if !m.session.Connected() {
		return m.session, ErrNotConnected
	}
	if ref != m.session.WalletID {
		return m.session, ErrInviteMismatch
	}
	m.session.InvitesCount++
	return m.session, nil
}
