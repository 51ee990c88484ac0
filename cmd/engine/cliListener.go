package main

import (
	"fmt"
	"os"

	"factionengine/engine/actors"
	"factionengine/engine/library"
	"factionengine/messaging/eventconductor"
	"factionengine/state/governance"
	"factionengine/state/session"
	"github.com/eiannone/keyboard"
)

const help = `KEYS:
c: connect wallet    r: retry    x: cancel    a: approve (local wallet plugin)    d: disconnect
l: lock 10 XRP    u: unlock 10 XRP    j: join the top faction    n: create a faction (fee)    L: leave faction
i: invite link    p: simulate a friend accepting an invite    v: vote for the active proposal
s: session    b: leaderboard    g: governance    m: next matchup    e: network pulse    C: engine config
h: this help    q: quit`

// cliListener reads single keypresses and drives the engine with them.
func cliListener(e *eventconductor.Engine, interrupt chan struct{}) {
	fmt.Println(help)
	matchup := 0
	for {
		r, k, err := keyboard.GetSingleKey()
		if err != nil {
			library.LogCLI(err, 1)
			close(interrupt)
			return
		}
		str := string(r)
		switch str {
		default:
			if k == keyboard.KeyEnter {
				fmt.Println("\n-----------------------------------")
				break
			}
			if k == keyboard.KeyCtrlC {
				close(interrupt)
				return
			}
			if r == 0 {
				break
			}
			fmt.Println("Key " + str + " is not bound to anything, h for help.")
		case "h":
			fmt.Println(help)
		case "q":
			close(interrupt)
			return
		case "c":
			if !e.Connect() {
				fmt.Println("A connection is already in progress or established.")
			}
		case "r":
			if !e.Retry() {
				fmt.Println("Nothing to retry.")
			}
		case "x":
			e.CancelConnect()
		case "a":
			report(e.Approve(nil))
		case "d":
			e.Disconnect()
		case "l":
			_, err := e.Lock(10)
			report(err)
		case "u":
			penalty, _, err := e.Unlock(10)
			if report(err) {
				fmt.Printf("Unlocked 10 XRP, %s XRP early withdrawal fee\n", library.FormatXRP(penalty))
			}
		case "j":
			top := e.Factions.Top(1)
			if len(top) > 0 {
				_, err := e.JoinFaction(top[0].ID)
				report(err)
			}
		case "n":
			_, err := e.CreateFaction(fmt.Sprintf("Squad %s", actors.MyWallet().Account[:6]), session.MethodFee)
			report(err)
		case "L":
			_, err := e.LeaveFaction()
			report(err)
		case "i":
			inv, err := e.InviteLink()
			if report(err) {
				fmt.Printf("Invite link: %s\nInvite code: %s\n", inv.URL, inv.Code)
			}
		case "p":
			_, err := e.SimulateInvite()
			report(err)
		case "v":
			for _, p := range e.Governance.Proposals() {
				if p.Status == governance.Active {
					_, err := e.Vote(p.ID, governance.For)
					report(err)
					break
				}
			}
		case "s":
			state := e.CurrentState(matchup)
			renderSession(os.Stdout, state.Session, state.Cycle)
		case "b":
			renderLeaderboard(os.Stdout, e.Factions.All(), e.Factions.GlobalTotalLocked())
		case "g":
			state := e.CurrentState(matchup)
			renderProposals(os.Stdout, state.Proposals, state.Voted, e.Now())
		case "m":
			matchup++
			m, ok := e.Factions.Matchup(matchup)
			if ok {
				fmt.Printf("Battle #%d: %s %.1f%% vs %.1f%% %s\n", m.Index+1, m.A.Name, m.PercentA, m.PercentB, m.B.Name)
			}
		case "e":
			state := e.CurrentState(matchup)
			renderActivity(os.Stdout, state.Activity, state.TxRate, state.BlockHeight)
		case "C":
			fmt.Println("CURRENT CONFIG")
			for k, v := range actors.MakeOrGetConfig().AllSettings() {
				fmt.Printf("\nKey: %s; Value: %v\n", k, v)
			}
		}
	}
}

// report prints err, if any, and says whether the action went through.
func report(err error) bool {
	if err != nil {
		fmt.Println(err)
		return false
	}
	return true
}
