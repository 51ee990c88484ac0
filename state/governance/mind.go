package governance

import (
	"fmt"
	"time"

	"factionengine/engine/library"
	"factionengine/state/session"
	"github.com/benbjohnson/clock"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/exp/slices"
)

const day = 24 * time.Hour

// Mind holds the proposals and which of them this session has voted on. Votes are not persisted.
type Mind struct {
	mutex     *deadlock.Mutex
	clock     clock.Clock
	proposals []Proposal
	voted     map[library.ProposalID]struct{}
}

// NewMind seeds the proposal book relative to the current time.
func NewMind(c clock.Clock) *Mind {
	now := c.Now()
	return &Mind{
		mutex: &deadlock.Mutex{},
		clock: c,
		voted: make(map[library.ProposalID]struct{}),
		proposals: []Proposal{
			{
				ID:           "prop-104",
				Title:        "Adjust Cycle Duration",
				Description:  "Reduce the standard cycle duration from 7 days to 5 days to increase reward frequency and dynamic engagement.",
				Status:       Active,
				VotesFor:     1240500,
				VotesAgainst: 890200,
				EndTime:      now.Add(2 * day),
				Tags:         []string{"Economy", "Game Mechanics"},
			},
			{
				ID:           "prop-103",
				Title:        "Introduce Diamond+ Tier",
				Description:  "Create an exclusive tier for factions with over 500k XRP TVL with a 1.2x reward multiplier.",
				Status:       Passed,
				VotesFor:     3500000,
				VotesAgainst: 450000,
				EndTime:      now.Add(-7 * day),
				Tags:         []string{"Tiers", "Rewards"},
			},
			{
				ID:           "prop-102",
				Title:        "Reduce Creation Fee",
				Description:  "Lower the faction creation fee from 25 XRP to 10 XRP to encourage new squad formations.",
				Status:       Rejected,
				VotesFor:     890000,
				VotesAgainst: 2100000,
				EndTime:      now.Add(-14 * day),
				Tags:         []string{"Economy"},
			},
		},
	}
}

func (m *Mind) Proposals() []Proposal {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	out := make([]Proposal, len(m.proposals))
	copy(out, m.proposals)
	return out
}

func (m *Mind) Proposal(id library.ProposalID) (Proposal, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return Proposal{}, false
	}
	return m.proposals[i], true
}

func (m *Mind) HasVoted(id library.ProposalID) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	_, ok := m.voted[id]
	return ok
}

// Vote adds the voter's locked amount to one side of an open proposal. One vote per proposal.
func (m *Mind) Vote(voter session.Session, id library.ProposalID, side Side) (Proposal, error) {
	if !voter.Connected() {
		return Proposal{}, ErrNotConnected
	}
	if voter.LockedAmount <= 0 {
		return Proposal{}, ErrNoVotingPower
	}
	if side != For && side != Against {
		return Proposal{}, fmt.Errorf("%w: %q", ErrUnknownVoteSide, side)
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return Proposal{}, fmt.Errorf("%w: %s", ErrUnknownProposal, id)
	}
	p := m.proposals[i]
	if p.Status != Active || !m.clock.Now().Before(p.EndTime) {
		return p, ErrProposalClosed
	}
	if _, ok := m.voted[id]; ok {
		return p, ErrAlreadyVoted
	}
	switch side {
	case For:
		p.VotesFor += voter.LockedAmount
	case Against:
		p.VotesAgainst += voter.LockedAmount
	}
	m.proposals[i] = p
	m.voted[id] = struct{}{}
	library.LogCLI(fmt.Sprintf("%s voted %s %s with %s vXRP", voter.WalletID, side, id, library.FormatXRP(voter.LockedAmount)), 4)
	return p, nil
}

// ResetVotes forgets which proposals were voted on. Tallies keep the votes already cast.
func (m *Mind) ResetVotes() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.voted = make(map[library.ProposalID]struct{})
}

func (m *Mind) indexOf(id library.ProposalID) int {
	return slices.IndexFunc(m.proposals, func(p Proposal) bool { return p.ID == id })
}

// Percentage is val as a share of total, to one decimal. Zero when total is zero.
func Percentage(val, total float64) float64 {
	if total == 0 {
		return 0
	}
	return library.Round(val/total*100, 1)
}

// TimeRemaining renders "Ended" or "Xd Yh remaining".
func TimeRemaining(end, now time.Time) string {
	diff := end.Sub(now)
	if diff <= 0 {
		return "Ended"
	}
	days := int64(diff / day)
	hours := int64((diff % day) / time.Hour)
	return fmt.Sprintf("%dd %dh remaining", days, hours)
}
