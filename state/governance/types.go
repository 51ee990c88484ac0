package governance

import (
	"errors"
	"time"

	"factionengine/engine/library"
)

var (
	ErrNotConnected    = errors.New("connect a wallet to vote")
	ErrNoVotingPower   = errors.New("lock XRP to gain voting power")
	ErrUnknownProposal = errors.New("unknown proposal")
	ErrProposalClosed  = errors.New("proposal is not open for voting")
	ErrAlreadyVoted    = errors.New("already voted on this proposal")
	ErrUnknownVoteSide = errors.New("vote must be for or against")
)

type Status string

const (
	Active   Status = "Active"
	Passed   Status = "Passed"
	Rejected Status = "Rejected"
	Pending  Status = "Pending"
)

type Side string

const (
	For     Side = "for"
	Against Side = "against"
)

type Proposal struct {
	ID           library.ProposalID
	Title        string
	Description  string
	Status       Status
	VotesFor     float64
	VotesAgainst float64
	EndTime      time.Time
	Tags         []string
}

func (p Proposal) Total() float64 {
	return p.VotesFor + p.VotesAgainst
}
