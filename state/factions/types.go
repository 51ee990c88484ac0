package factions

import (
	"factionengine/engine/library"
)

type Tier = string

const (
	Diamond  Tier = "Diamond"
	Platinum Tier = "Platinum"
	Gold     Tier = "Gold"
	Silver   Tier = "Silver"
	Bronze   Tier = "Bronze"
)

type Faction struct {
	ID          library.FactionID
	Name        string
	Tier        Tier
	Members     int64
	TotalLocked float64 // XRP
	GrowthRate  float64 // percent this cycle
	Dominance   float64 // percent of the global locked total
	Rank        int64
}

// Matchup is a head to head between two neighbouring factions on the landing page.
type Matchup struct {
	Index    int
	A, B     Faction
	PercentA float64
	PercentB float64
}

type record struct {
	Rank    int64   `yaml:"rank"`
	Name    string  `yaml:"name"`
	Tier    Tier    `yaml:"tier"`
	Locked  float64 `yaml:"locked"`
	Members int64   `yaml:"members"`
}
