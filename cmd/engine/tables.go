package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"factionengine/engine/library"
	"factionengine/state/activity"
	"factionengine/state/cycle"
	"factionengine/state/factions"
	"factionengine/state/governance"
	"factionengine/state/session"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

func renderLeaderboard(w io.Writer, fs []factions.Faction, global float64) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Faction", "Tier", "Members", "Locked", "Growth", "Dominance"})
	for _, f := range fs {
		table.Append([]string{
			fmt.Sprintf("#%d", f.Rank),
			f.Name,
			f.Tier,
			humanize.Comma(f.Members),
			fmt.Sprintf("%.1fk XRP", f.TotalLocked/1000),
			fmt.Sprintf("%+.1f%%", f.GrowthRate),
			fmt.Sprintf("%.2f%%", f.Dominance),
		})
	}
	table.SetFooter([]string{"", "", "", "", library.FormatXRP(global) + " XRP", "", "100%"})
	table.Render()
}

func renderProposals(w io.Writer, ps []governance.Proposal, voted map[library.ProposalID]bool, now time.Time) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Title", "Status", "For", "Against", "Ends", "Tags"})
	for _, p := range ps {
		status := string(p.Status)
		if voted[p.ID] {
			status += " (voted)"
		}
		table.Append([]string{
			p.ID,
			p.Title,
			status,
			library.FormatPercent(governance.Percentage(p.VotesFor, p.Total())),
			library.FormatPercent(governance.Percentage(p.VotesAgainst, p.Total())),
			governance.TimeRemaining(p.EndTime, now),
			strings.Join(p.Tags, ", "),
		})
	}
	table.Render()
}

func renderSession(w io.Writer, s session.Session, c cycle.Countdown) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Wallet", "Balance", "Locked", "Faction", "Rank", "Est. Reward", "Invites"})
	faction, rank := "Rogue", "-"
	if s.InFaction() {
		faction, rank = s.FactionName, fmt.Sprintf("#%d", s.FactionRank)
	}
	table.Append([]string{
		s.WalletID,
		library.FormatXRP(s.Balance) + " XRP",
		library.FormatXRP(s.LockedAmount) + " XRP",
		faction,
		rank,
		"+" + library.FormatXRP(s.EstimatedReward) + " XRP",
		fmt.Sprintf("%d", s.InvitesCount),
	})
	table.Render()
	fmt.Fprintf(w, "Cycle #%d ends in %dd %dh %dm %ds (%.1f%% elapsed)\n", c.Cycle, c.Days, c.Hours, c.Minutes, c.Seconds, c.Progress)
}

func renderActivity(w io.Writer, items []activity.Item, txRate, blockHeight int64) {
	fmt.Fprintf(w, "Network pulse: %d tx/s, block %s\n", txRate, humanize.Comma(blockHeight))
	for _, item := range items {
		switch item.Kind {
		case activity.Lock:
			fmt.Fprintf(w, "  %s locked %s XRP\n", item.Wallet, library.FormatXRP(item.Amount))
		case activity.Join:
			fmt.Fprintf(w, "  %s joined a faction\n", item.Wallet)
		case activity.Create:
			fmt.Fprintf(w, "  %s created a faction (%s XRP)\n", item.Wallet, library.FormatXRP(item.Amount))
		}
	}
}
