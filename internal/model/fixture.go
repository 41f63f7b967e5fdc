package model

import "strings"

// ResultPlaceholder is what the fixture feed shows for matches not yet played
const ResultPlaceholder = "-"

// FixtureRecord is one scheduled or played match as reported by the fixture feed.
// JSON keys follow the feed's column headers so cached snapshots stay recognizable.
type FixtureRecord struct {
	MatchID     string `json:"Kampnr"`
	Date        string `json:"Dato"` // DD.MM.YYYY
	Time        string `json:"Tid"`  // HH:MM
	Competition string `json:"Turnering"`
	HomeTeam    string `json:"Hjemmelag"`
	AwayTeam    string `json:"Bortelag"`
	Result      string `json:"H-B"` // "home-away", or "" / "-" when not played
	Venue       string `json:"Bane"`
	MatchURL    string `json:"Kamp URL,omitempty"`
}

// HasResult reports whether the feed carries a genuine result for the match
func (f FixtureRecord) HasResult() bool {
	r := strings.TrimSpace(f.Result)
	return r != "" && r != ResultPlaceholder
}

// DateString implements reconcile.Dated
func (f FixtureRecord) DateString() string { return f.Date }

// TimeString implements reconcile.Dated
func (f FixtureRecord) TimeString() string { return f.Time }

// Team describes one team whose schedule is tracked
type Team struct {
	Name     string `json:"name" yaml:"name" mapstructure:"name"`
	ListID   string `json:"list_id" yaml:"list_id" mapstructure:"list_id"`
	SeasonID string `json:"season_id" yaml:"season_id" mapstructure:"season_id"`

	// Result pages for matches the fixture feed does not list (cups, tournaments)
	TournamentURLs []string `json:"tournament_urls,omitempty" yaml:"tournament_urls,omitempty" mapstructure:"tournament_urls"`
}

// Slug returns a filesystem-friendly name for the team
func (t Team) Slug() string {
	name := strings.ToLower(strings.TrimSpace(t.Name))
	if name == "" {
		name = t.ListID
	}

	var b strings.Builder
	lastDash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == 'æ':
			b.WriteString("ae")
			lastDash = false
		case r == 'ø':
			b.WriteRune('o')
			lastDash = false
		case r == 'å':
			b.WriteString("aa")
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
