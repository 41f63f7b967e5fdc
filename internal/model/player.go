package model

// TeamRef identifies a team within box-score data
type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlayerBoxScoreEntry is one player's line in one match
type PlayerBoxScoreEntry struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Number   *int   `json:"number,omitempty"` // Jersey number, not always reported
	Goals    int    `json:"goals"`
}

// MatchBoxScore carries both sides' box scores for one match
type MatchBoxScore struct {
	MatchID     string                `json:"matchId"`
	Home        TeamRef               `json:"homeTeam"`
	Away        TeamRef               `json:"awayTeam"`
	HomePlayers []PlayerBoxScoreEntry `json:"homePlayers"`
	AwayPlayers []PlayerBoxScoreEntry `json:"awayPlayers"`
}

// PlayerAggregate is the cross-match rollup for one player id.
// Rebuilt from scratch on every aggregation run.
type PlayerAggregate struct {
	PlayerID    string    `json:"playerId"`
	Name        string    `json:"name"`
	Number      *int      `json:"number,omitempty"` // Most recently observed jersey number
	Teams       []TeamRef `json:"teams"`            // First-encountered order
	PrimaryTeam TeamRef   `json:"primaryTeam"`      // Team with the most appearances
	Appearances int       `json:"appearances"`
	Goals       int       `json:"goals"`
}
