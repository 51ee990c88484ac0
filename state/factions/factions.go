package factions

import (
	_ "embed"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"factionengine/engine/library"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

//go:embed factions.yaml
var dataset []byte

const (
	DefaultSearchLimit = 10
	// MatchupCount is how many head to heads the landing page rotates through (the top ten factions).
	MatchupCount = 5
)

var tiers = []Tier{Diamond, Platinum, Gold, Silver, Bronze}

// Registry is the read-only faction reference data. It never changes after Load.
type Registry struct {
	factions []Faction
	index    map[library.FactionID]int
	global   float64
}

// Load builds the registry from the embedded dataset. Growth rates are random; seed 0 seeds from
// the wall clock.
func Load(seed int64) (*Registry, error) {
	var records []record
	if err := yaml.Unmarshal(dataset, &records); err != nil {
		return nil, fmt.Errorf("parse faction dataset: %w", err)
	}
	return build(records, seed)
}

func build(records []record, seed int64) (*Registry, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))
	reg := &Registry{index: make(map[library.FactionID]int)}
	for _, rec := range records {
		if !slices.Contains(tiers, rec.Tier) {
			return nil, fmt.Errorf("faction %s has unknown tier %q", rec.Name, rec.Tier)
		}
		reg.global += rec.Locked
	}
	for i, rec := range records {
		f := Faction{
			ID:          fmt.Sprintf("f%d", i+1),
			Name:        rec.Name,
			Tier:        rec.Tier,
			Members:     rec.Members,
			TotalLocked: rec.Locked,
			GrowthRate:  library.Round(r.Float64()*23-5, 1),
			Rank:        rec.Rank,
		}
		if reg.global > 0 {
			f.Dominance = library.Round(rec.Locked/reg.global*100, 2)
		}
		reg.index[f.ID] = len(reg.factions)
		reg.factions = append(reg.factions, f)
	}
	return reg, nil
}

func (r *Registry) All() []Faction {
	return append([]Faction(nil), r.factions...)
}

func (r *Registry) Top(n int) []Faction {
	if n > len(r.factions) {
		n = len(r.factions)
	}
	if n < 0 {
		n = 0
	}
	return append([]Faction(nil), r.factions[:n]...)
}

func (r *Registry) Find(id library.FactionID) (Faction, bool) {
	i, ok := r.index[id]
	if !ok {
		return Faction{}, false
	}
	return r.factions[i], true
}

// Search matches names case-insensitively, in rank order. A limit <= 0 means DefaultSearchLimit.
func (r *Registry) Search(query string, limit int) []Faction {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(query)
	var result []Faction
	for _, f := range r.factions {
		if strings.Contains(strings.ToLower(f.Name), q) {
			result = append(result, f)
			if len(result) == limit {
				break
			}
		}
	}
	return result
}

func (r *Registry) GlobalTotalLocked() float64 {
	return r.global
}

// Matchup pairs factions 2i and 2i+1. i wraps around MatchupCount.
func (r *Registry) Matchup(i int) (Matchup, bool) {
	i = ((i % MatchupCount) + MatchupCount) % MatchupCount
	if 2*i+1 >= len(r.factions) {
		return Matchup{}, false
	}
	m := Matchup{Index: i, A: r.factions[2*i], B: r.factions[2*i+1], PercentA: 50}
	if total := m.A.TotalLocked + m.B.TotalLocked; total > 0 {
		m.PercentA = m.A.TotalLocked / total * 100
	}
	m.PercentB = 100 - m.PercentA
	return m, true
}
