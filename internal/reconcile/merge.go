package reconcile

import (
	"strings"

	"github.com/ppiankov/kampsync/internal/model"
)

// MergeMatches builds the canonical set of played matches.
//
// Tournament-sourced entries seed the set and are never overwritten: the first
// writer for a match id wins. Fixture rows are added afterwards, in feed order,
// only when they carry a genuine result and a detail URL and their id is new.
// Output keeps insertion order.
func MergeMatches(tournament []model.CanonicalMatch, fixtures []model.FixtureRecord) []model.CanonicalMatch {
	merged := newOrderedMatches(len(tournament) + len(fixtures))

	for _, m := range tournament {
		merged.insert(m)
	}

	for _, f := range fixtures {
		if !f.HasResult() || strings.TrimSpace(f.MatchURL) == "" {
			continue
		}
		merged.insert(model.CanonicalMatch{MatchID: f.MatchID, MatchURL: f.MatchURL})
	}

	return merged.values()
}

// orderedMatches is a match-id keyed set that remembers insertion order
type orderedMatches struct {
	index map[string]int
	items []model.CanonicalMatch
}

func newOrderedMatches(capacity int) *orderedMatches {
	return &orderedMatches{
		index: make(map[string]int, capacity),
		items: make([]model.CanonicalMatch, 0, capacity),
	}
}

// insert adds m unless its id is already present
func (o *orderedMatches) insert(m model.CanonicalMatch) bool {
	if _, exists := o.index[m.MatchID]; exists {
		return false
	}
	o.index[m.MatchID] = len(o.items)
	o.items = append(o.items, m)
	return true
}

func (o *orderedMatches) values() []model.CanonicalMatch {
	out := make([]model.CanonicalMatch, len(o.items))
	copy(out, o.items)
	return out
}

// TournamentMatches turns resolved result pages into tournament-sourced entries,
// keeping the order of urls. URLs that did not resolve are left out.
func TournamentMatches(urls []string, resolved map[string]model.AuthoritativeResult, idOf func(string) (string, bool)) []model.CanonicalMatch {
	out := make([]model.CanonicalMatch, 0, len(resolved))
	for _, u := range urls {
		id, ok := idOf(u)
		if !ok {
			continue
		}
		if _, found := resolved[id]; !found {
			continue
		}
		out = append(out, model.CanonicalMatch{MatchID: id, MatchURL: u})
	}
	return out
}
