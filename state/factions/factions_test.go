package factions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := Load(7)
	require.NoError(t, err)
	return reg
}

func TestLoadDataset(t *testing.T) {
	reg := loadRegistry(t)
	all := reg.All()
	require.Len(t, all, 100)
	assert.Equal(t, 3177660.0, reg.GlobalTotalLocked())

	first := all[0]
	assert.Equal(t, "f1", first.ID)
	assert.Equal(t, "Obsidian Dominion", first.Name)
	assert.Equal(t, Diamond, first.Tier)
	assert.Equal(t, int64(1), first.Rank)
	assert.Equal(t, 8.54, first.Dominance)

	last := all[99]
	assert.Equal(t, "f100", last.ID)
	assert.Equal(t, "Last Horizon", last.Name)
	assert.Equal(t, 0.01, last.Dominance)

	for _, f := range all {
		assert.GreaterOrEqual(t, f.GrowthRate, -5.0, f.Name)
		assert.Less(t, f.GrowthRate, 18.0, f.Name)
	}
}

func TestGrowthIsSeeded(t *testing.T) {
	a, err := Load(99)
	require.NoError(t, err)
	b, err := Load(99)
	require.NoError(t, err)
	assert.Equal(t, a.All(), b.All())
}

func TestBuildRejectsUnknownTier(t *testing.T) {
	_, err := build([]record{{Rank: 1, Name: "Odd", Tier: "Mythril", Locked: 1}}, 1)
	assert.Error(t, err)
}

func TestFindAndTop(t *testing.T) {
	reg := loadRegistry(t)
	f, ok := reg.Find("f3")
	require.True(t, ok)
	assert.Equal(t, "Crimson Ledger Pact", f.Name)
	_, ok = reg.Find("f_missing")
	assert.False(t, ok)

	top := reg.Top(5)
	require.Len(t, top, 5)
	assert.Equal(t, "Helix Treasury", top[4].Name)
	assert.Len(t, reg.Top(1000), 100)
	assert.Empty(t, reg.Top(-1))
}

func TestSearch(t *testing.T) {
	reg := loadRegistry(t)
	res := reg.Search("VAULT", 0)
	require.Len(t, res, DefaultSearchLimit)
	assert.Equal(t, "Axis Vault", res[0].Name)
	for _, f := range res {
		assert.Contains(t, f.Name, "Vault")
	}

	assert.Len(t, reg.Search("vault", 3), 3)
	assert.Empty(t, reg.Search("no such faction", 10))
	assert.Len(t, reg.Search("", 0), DefaultSearchLimit)
}

func TestMatchup(t *testing.T) {
	reg := loadRegistry(t)
	m, ok := reg.Matchup(0)
	require.True(t, ok)
	assert.Equal(t, "Obsidian Dominion", m.A.Name)
	assert.Equal(t, "Apex Quantum Order", m.B.Name)
	assert.InDelta(t, 271430.0/(271430+258920)*100, m.PercentA, 1e-9)
	assert.InDelta(t, 100, m.PercentA+m.PercentB, 1e-9)

	m, ok = reg.Matchup(MatchupCount + 1)
	require.True(t, ok)
	assert.Equal(t, 1, m.Index)
	m, _ = reg.Matchup(-1)
	assert.Equal(t, MatchupCount-1, m.Index)
}

func TestMatchupWithNothingLocked(t *testing.T) {
	reg, err := build([]record{
		{Rank: 1, Name: "A", Tier: Bronze},
		{Rank: 2, Name: "B", Tier: Bronze},
	}, 1)
	require.NoError(t, err)
	m, ok := reg.Matchup(0)
	require.True(t, ok)
	assert.Equal(t, 50.0, m.PercentA)
	assert.Equal(t, 50.0, m.PercentB)
	assert.Equal(t, 0.0, m.A.Dominance)

	_, ok = reg.Matchup(1)
	assert.False(t, ok)
}
