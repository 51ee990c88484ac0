package eventconductor

import (
	"factionengine/engine/library"
	"factionengine/state/activity"
	"factionengine/state/connection"
	"factionengine/state/cycle"
	"factionengine/state/factions"
	"factionengine/state/governance"
	"factionengine/state/session"
)

// CurrentState is everything a view needs to render, captured at one moment.
type CurrentState struct {
	View        library.View
	Connection  connection.State
	Session     session.Session
	Cycle       cycle.Countdown
	Matchup     factions.Matchup
	Proposals   []governance.Proposal
	Voted       map[library.ProposalID]bool
	Activity    []activity.Item
	TxRate      int64
	BlockHeight int64
}

// CurrentState builds a snapshot. matchup selects the landing page head to head.
func (e *Engine) CurrentState(matchup int) CurrentState {
	c := CurrentState{
		View:       e.View(),
		Connection: e.Controller.State(),
		Session:    e.Session.Snapshot(),
		Cycle:      e.Cycle(),
		Proposals:  e.Governance.Proposals(),
		Voted:      make(map[library.ProposalID]bool),
		Activity:   e.Activity.Items(),
	}
	c.Matchup, _ = e.Factions.Matchup(matchup)
	for _, p := range c.Proposals {
		c.Voted[p.ID] = e.Governance.HasVoted(p.ID)
	}
	c.TxRate, c.BlockHeight = e.Activity.Stats()
	return c
}
