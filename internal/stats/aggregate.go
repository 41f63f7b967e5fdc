// Package stats folds per-match box scores into per-player season aggregates.
package stats

import (
	"sort"

	"github.com/ppiankov/kampsync/internal/model"
)

// teamCount is one player's appearance counter for one team
type teamCount struct {
	team  model.TeamRef
	count int
}

// playerState accumulates one player while the corpus is folded
type playerState struct {
	id          string
	name        string
	number      *int
	teams       []*teamCount // first-encountered order
	byTeam      map[string]*teamCount
	appearances int
	goals       int
}

// aggregator owns the per-run player table. Nothing survives between runs.
type aggregator struct {
	players map[string]*playerState
	order   []*playerState
}

// AggregatePlayers folds every match's home and away box scores into one
// aggregate per player id, in order of first sighting.
//
// Jersey numbers are last-seen-wins. The primary team is the team with the
// highest appearance count; on a tie the earliest-encountered team keeps it.
func AggregatePlayers(matches []model.MatchBoxScore) []model.PlayerAggregate {
	a := &aggregator{players: make(map[string]*playerState)}

	for _, m := range matches {
		a.foldSide(m.HomePlayers, m.Home)
		a.foldSide(m.AwayPlayers, m.Away)
	}

	out := make([]model.PlayerAggregate, 0, len(a.order))
	for _, p := range a.order {
		out = append(out, p.aggregate())
	}
	return out
}

// foldSide applies one side's entries against that side's team.
// Home and away go through this same routine.
func (a *aggregator) foldSide(entries []model.PlayerBoxScoreEntry, team model.TeamRef) {
	for _, e := range entries {
		p, ok := a.players[e.PlayerID]
		if !ok {
			p = &playerState{
				id:     e.PlayerID,
				name:   e.Name,
				byTeam: make(map[string]*teamCount),
			}
			a.players[e.PlayerID] = p
			a.order = append(a.order, p)
		}

		if e.Number != nil {
			n := *e.Number
			p.number = &n
		}

		tc, ok := p.byTeam[team.ID]
		if !ok {
			tc = &teamCount{team: team}
			p.byTeam[team.ID] = tc
			p.teams = append(p.teams, tc)
		}
		tc.count++

		p.appearances++
		p.goals += e.Goals
	}
}

func (p *playerState) aggregate() model.PlayerAggregate {
	teams := make([]model.TeamRef, 0, len(p.teams))
	var primary *teamCount
	for _, tc := range p.teams {
		teams = append(teams, tc.team)
		if primary == nil || tc.count > primary.count {
			primary = tc
		}
	}

	agg := model.PlayerAggregate{
		PlayerID:    p.id,
		Name:        p.name,
		Number:      p.number,
		Teams:       teams,
		Appearances: p.appearances,
		Goals:       p.goals,
	}
	if primary != nil {
		agg.PrimaryTeam = primary.team
	}
	return agg
}

// RankByGoals returns a copy ordered by goals (desc), then name, then id
func RankByGoals(aggs []model.PlayerAggregate) []model.PlayerAggregate {
	ranked := make([]model.PlayerAggregate, len(aggs))
	copy(ranked, aggs)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Goals != ranked[j].Goals {
			return ranked[i].Goals > ranked[j].Goals
		}
		if ranked[i].Name != ranked[j].Name {
			return ranked[i].Name < ranked[j].Name
		}
		return ranked[i].PlayerID < ranked[j].PlayerID
	})

	return ranked
}
