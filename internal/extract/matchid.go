package extract

import "regexp"

var matchIDPattern = regexp.MustCompile(`matchid=(\d+)`)

// MatchIDFromURL pulls the numeric match id out of a result page URL
func MatchIDFromURL(rawURL string) (string, bool) {
	m := matchIDPattern.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}
