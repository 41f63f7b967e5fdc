package model

import "strconv"

// AuthoritativeResult is a final score read directly from a match's detail page
type AuthoritativeResult struct {
	MatchID   string `json:"matchId"`
	HomeScore *int   `json:"homeScore,omitempty"`
	AwayScore *int   `json:"awayScore,omitempty"`
	Result    string `json:"result"` // "<home>-<away>" when both scores are present
}

// NewAuthoritativeResult builds a result with both scores present
func NewAuthoritativeResult(matchID string, home, away int) AuthoritativeResult {
	return AuthoritativeResult{
		MatchID:   matchID,
		HomeScore: &home,
		AwayScore: &away,
		Result:    ComposeResult(home, away),
	}
}

// ComposeResult formats a score pair the way the fixture feed does
func ComposeResult(home, away int) string {
	return strconv.Itoa(home) + "-" + strconv.Itoa(away)
}

// CanonicalMatch is one entry of the reconciled, de-duplicated set of played matches
type CanonicalMatch struct {
	MatchID  string `json:"matchId"`
	MatchURL string `json:"matchUrl"`
}
