package extract

import (
	"regexp/syntax"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultPage = `
<html>
<body>
	<table><tr><th class="bold">9</th></tr></table>
	<div class="match__result">
		<table>
			<tr>
				<th class="bold">Lyn</th>
				<th class="bold">3</th>
				<th>-</th>
				<th class="bold"> 1 </th>
				<th class="bold">7</th>
			</tr>
		</table>
	</div>
</body>
</html>`

func TestSelectorExtractor_FirstTwoNumericCells(t *testing.T) {
	home, away, ok := NewSelectorExtractor("", "").Extract(resultPage)
	require.True(t, ok)
	assert.Equal(t, 3, home)
	assert.Equal(t, 1, away)
}

func TestSelectorExtractor_FewerThanTwoCells(t *testing.T) {
	page := `<div class="match__result"><table><tr><th class="bold">2</th><th>0</th></tr></table></div>`
	_, _, ok := NewSelectorExtractor("", "").Extract(page)
	assert.False(t, ok)
}

func TestSelectorExtractor_NoContainer(t *testing.T) {
	page := `<table><tr><th class="bold">2</th><th class="bold">0</th></tr></table>`
	_, _, ok := NewSelectorExtractor("", "").Extract(page)
	assert.False(t, ok, "cells outside the score container must be ignored")
}

func TestSelectorExtractor_CustomSelectors(t *testing.T) {
	page := `<section id="score"><span class="goals">0</span><span class="goals">4</span></section>`
	home, away, ok := NewSelectorExtractor("#score", "span.goals").Extract(page)
	require.True(t, ok)
	assert.Equal(t, 0, home)
	assert.Equal(t, 4, away)
}

func TestPatternExtractor(t *testing.T) {
	extractor, err := NewPatternExtractor("")
	require.NoError(t, err)

	page := `<th class="text-center bold">2</th><th>vs</th><th class="bold" scope="col">5</th>`
	home, away, ok := extractor.Extract(page)
	require.True(t, ok)
	assert.Equal(t, 2, home)
	assert.Equal(t, 5, away)

	_, _, ok = extractor.Extract(`<th class="bold">2</th>`)
	assert.False(t, ok)
}

func TestNewPatternExtractor_Invalid(t *testing.T) {
	_, err := NewPatternExtractor("(")
	require.ErrorContains(t, err, "compile score pattern")
	var syntaxErr *syntax.Error
	assert.True(t, errors.As(err, &syntaxErr), "the regexp error stays reachable")

	_, err = NewPatternExtractor(`\d+`)
	require.Error(t, err, "pattern without capture group")
}

func TestNewScoreExtractor(t *testing.T) {
	e, err := NewScoreExtractor("", "", "")
	require.NoError(t, err)
	assert.IsType(t, &SelectorExtractor{}, e)

	e, err = NewScoreExtractor("pattern", "", "")
	require.NoError(t, err)
	assert.IsType(t, &PatternExtractor{}, e)

	_, err = NewScoreExtractor("xpath", "", "")
	require.Error(t, err)
}

func TestMatchIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		id   string
		isOK bool
	}{
		{"https://www.fotball.no/fotballdata/kamp/?matchid=8123456", "8123456", true},
		{"https://example.com/result?season=2025&matchid=42&tab=stats", "42", true},
		{"https://example.com/result?matchid=", "", false},
		{"https://example.com/result?id=42", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			id, ok := MatchIDFromURL(tt.url)
			assert.Equal(t, tt.isOK, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}
