package extract

import (
	"bytes"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/kampsync/internal/model"
)

// Fixture feed column headers
const (
	ColMatchID     = "Kampnr"
	ColDate        = "Dato"
	ColTime        = "Tid"
	ColCompetition = "Turnering"
	ColHomeTeam    = "Hjemmelag"
	ColAwayTeam    = "Bortelag"
	ColResult      = "H-B"
	ColVenue       = "Bane"
	ColMatchURL    = "Kamp URL"
)

// ParseFixtureSheet reads the first sheet of an XLSX fixture feed.
// The first row is the header; columns are matched by name so their order may vary.
// Rows without a match id are skipped.
func ParseFixtureSheet(data []byte) ([]model.FixtureRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "open fixture sheet")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("fixture workbook has no sheets")
	}

	sheetName := sheets[0]
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheetName)
	}
	if len(rows) == 0 {
		return []model.FixtureRecord{}, nil
	}

	columns := headerIndex(rows[0])
	if _, ok := columns[ColMatchID]; !ok {
		return nil, errors.Newf("sheet %q has no %q column", sheetName, ColMatchID)
	}

	fixtures := make([]model.FixtureRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		fixture := model.FixtureRecord{
			MatchID:     cell(ColMatchID),
			Date:        cell(ColDate),
			Time:        cell(ColTime),
			Competition: cell(ColCompetition),
			HomeTeam:    cell(ColHomeTeam),
			AwayTeam:    cell(ColAwayTeam),
			Result:      cell(ColResult),
			Venue:       cell(ColVenue),
			MatchURL:    cell(ColMatchURL),
		}
		if fixture.MatchID == "" {
			continue
		}
		fixtures = append(fixtures, fixture)
	}

	return fixtures, nil
}

// headerIndex maps trimmed header names to column positions; first occurrence wins
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	return index
}
