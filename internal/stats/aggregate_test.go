package stats

import (
	"testing"

	"github.com/ppiankov/kampsync/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	lyn   = model.TeamRef{ID: "t1", Name: "Lyn"}
	skeid = model.TeamRef{ID: "t2", Name: "Skeid"}
	kfum  = model.TeamRef{ID: "t3", Name: "KFUM"}
)

func jersey(n int) *int { return &n }

func entry(id string, number *int, goals int) model.PlayerBoxScoreEntry {
	return model.PlayerBoxScoreEntry{PlayerID: id, Name: "Player " + id, Number: number, Goals: goals}
}

func TestAggregatePlayers_PrimaryTeamByAppearances(t *testing.T) {
	matches := []model.MatchBoxScore{
		{MatchID: "1", Home: skeid, Away: lyn, AwayPlayers: []model.PlayerBoxScoreEntry{entry("p1", nil, 0)}},
		{MatchID: "2", Home: lyn, Away: skeid, HomePlayers: []model.PlayerBoxScoreEntry{entry("p1", nil, 1)}},
		{MatchID: "3", Home: skeid, Away: kfum, HomePlayers: []model.PlayerBoxScoreEntry{entry("p1", nil, 2)}},
	}
	// p1: t1 twice (away in 1, home in 2), t2 once

	aggs := AggregatePlayers(matches)

	require.Len(t, aggs, 1)
	p1 := aggs[0]
	assert.Equal(t, lyn, p1.PrimaryTeam)
	assert.Equal(t, []model.TeamRef{lyn, skeid}, p1.Teams)
	assert.Equal(t, 3, p1.Appearances)
	assert.Equal(t, 3, p1.Goals)
}

func TestAggregatePlayers_TieKeepsEarliestTeam(t *testing.T) {
	matches := []model.MatchBoxScore{
		{Home: skeid, Away: lyn, HomePlayers: []model.PlayerBoxScoreEntry{entry("p1", nil, 0)}},
		{Home: lyn, Away: kfum, HomePlayers: []model.PlayerBoxScoreEntry{entry("p1", nil, 0)}},
		{Home: kfum, Away: lyn, AwayPlayers: []model.PlayerBoxScoreEntry{entry("p1", nil, 0)}},
		{Home: skeid, Away: kfum, HomePlayers: []model.PlayerBoxScoreEntry{entry("p1", nil, 0)}},
	}
	// skeid 2, lyn 2: skeid was seen first

	aggs := AggregatePlayers(matches)

	require.Len(t, aggs, 1)
	assert.Equal(t, skeid, aggs[0].PrimaryTeam)
}

func TestAggregatePlayers_JerseyLastSeenWins(t *testing.T) {
	matches := []model.MatchBoxScore{
		{Home: lyn, Away: skeid, HomePlayers: []model.PlayerBoxScoreEntry{entry("p1", jersey(7), 0)}},
		{Home: lyn, Away: skeid, HomePlayers: []model.PlayerBoxScoreEntry{entry("p1", nil, 0)}},
		{Home: lyn, Away: skeid, HomePlayers: []model.PlayerBoxScoreEntry{entry("p1", jersey(9), 0)}},
		{Home: lyn, Away: skeid, HomePlayers: []model.PlayerBoxScoreEntry{entry("p1", nil, 0)}},
	}

	aggs := AggregatePlayers(matches)

	require.Len(t, aggs, 1)
	require.NotNil(t, aggs[0].Number)
	assert.Equal(t, 9, *aggs[0].Number)
}

func TestAggregatePlayers_JerseyAbsentWhenNeverObserved(t *testing.T) {
	matches := []model.MatchBoxScore{
		{Home: lyn, Away: skeid, AwayPlayers: []model.PlayerBoxScoreEntry{entry("p2", nil, 1)}},
	}

	aggs := AggregatePlayers(matches)

	require.Len(t, aggs, 1)
	assert.Nil(t, aggs[0].Number)
	assert.Equal(t, skeid, aggs[0].PrimaryTeam)
}

func TestAggregatePlayers_HomeAndAwayFoldIdentically(t *testing.T) {
	asHome := []model.MatchBoxScore{{Home: lyn, Away: skeid, HomePlayers: []model.PlayerBoxScoreEntry{entry("p1", jersey(4), 2)}}}
	asAway := []model.MatchBoxScore{{Home: skeid, Away: lyn, AwayPlayers: []model.PlayerBoxScoreEntry{entry("p1", jersey(4), 2)}}}

	assert.Equal(t, AggregatePlayers(asHome), AggregatePlayers(asAway))
}

func TestAggregatePlayers_OrderOfFirstSighting(t *testing.T) {
	matches := []model.MatchBoxScore{
		{
			Home:        lyn,
			Away:        skeid,
			HomePlayers: []model.PlayerBoxScoreEntry{entry("b", nil, 0), entry("a", nil, 0)},
			AwayPlayers: []model.PlayerBoxScoreEntry{entry("c", nil, 0)},
		},
		{Home: kfum, Away: lyn, HomePlayers: []model.PlayerBoxScoreEntry{entry("d", nil, 0), entry("a", nil, 0)}},
	}

	aggs := AggregatePlayers(matches)

	got := make([]string, len(aggs))
	for i, a := range aggs {
		got[i] = a.PlayerID
	}
	assert.Equal(t, []string{"b", "a", "c", "d"}, got)
}

func TestAggregatePlayers_FirstNameKept(t *testing.T) {
	matches := []model.MatchBoxScore{
		{Home: lyn, Away: skeid, HomePlayers: []model.PlayerBoxScoreEntry{{PlayerID: "p1", Name: "Ola Nordmann"}}},
		{Home: lyn, Away: skeid, HomePlayers: []model.PlayerBoxScoreEntry{{PlayerID: "p1", Name: "O. Nordmann"}}},
	}

	aggs := AggregatePlayers(matches)
	require.Len(t, aggs, 1)
	assert.Equal(t, "Ola Nordmann", aggs[0].Name)
}

func TestAggregatePlayers_RebuiltFromScratch(t *testing.T) {
	matches := []model.MatchBoxScore{
		{Home: lyn, Away: skeid, HomePlayers: []model.PlayerBoxScoreEntry{entry("p1", nil, 1)}},
	}

	first := AggregatePlayers(matches)
	second := AggregatePlayers(matches)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, second[0].Goals)
}

func TestAggregatePlayers_Empty(t *testing.T) {
	aggs := AggregatePlayers(nil)
	require.NotNil(t, aggs)
	require.Empty(t, aggs)
}

func TestRankByGoals(t *testing.T) {
	aggs := []model.PlayerAggregate{
		{PlayerID: "1", Name: "Berg", Goals: 2},
		{PlayerID: "2", Name: "Aas", Goals: 5},
		{PlayerID: "3", Name: "Aas", Goals: 2},
		{PlayerID: "4", Name: "Dahl", Goals: 0},
	}

	ranked := RankByGoals(aggs)

	got := make([]string, len(ranked))
	for i, a := range ranked {
		got[i] = a.PlayerID
	}
	assert.Equal(t, []string{"2", "3", "1", "4"}, got)
	assert.Equal(t, "1", aggs[0].PlayerID, "input must not be reordered")
}
