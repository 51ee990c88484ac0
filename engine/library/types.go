package library

// Account is a wallet identifier as reported by the wallet bridge (an XRPL classic address in practice).
type Account = string

type FactionID = string

type ProposalID = string

type Sha256 = string

// View is the screen the shell is currently rendering.
type View string

const (
	ViewLanding     View = "LANDING"
	ViewDashboard   View = "DASHBOARD"
	ViewLeaderboard View = "LEADERBOARD"
	ViewGovernance  View = "GOVERNANCE"
)

// Wallet is the engine's own relay identity. It only signs bridge requests, never ledger transactions.
type Wallet struct {
	PrivateKey string
	SeedWords  string
	Account    Account
}
