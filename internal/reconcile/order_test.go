package reconcile

import (
	"testing"

	"github.com/ppiankov/kampsync/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSortableDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"14.09.2025", "2025-09-14"},
		{"01.01.2025", "2025-01-01"},
		{"29.02.2024", "2024-02-29"},
		{"", ""},
		{"2025-09-14", "2025-09-14"},
		{"14.09", "14.09"},
		{"1.2.3.4", "1.2.3.4"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToSortableDate(tt.in))
		})
	}
}

func fixture(id, date, clock string) model.FixtureRecord {
	return model.FixtureRecord{MatchID: id, Date: date, Time: clock}
}

func ids(fixtures []model.FixtureRecord) []string {
	out := make([]string, len(fixtures))
	for i, f := range fixtures {
		out[i] = f.MatchID
	}
	return out
}

func TestSortChronologically(t *testing.T) {
	input := []model.FixtureRecord{
		fixture("sep", "14.09.2025", "18:00"),
		fixture("jan", "01.01.2025", "09:00"),
	}

	sorted := SortChronologically(input)

	assert.Equal(t, []string{"jan", "sep"}, ids(sorted))
	assert.Equal(t, []string{"sep", "jan"}, ids(input), "input must not be mutated")
}

func TestSortChronologically_AcrossBoundaries(t *testing.T) {
	input := []model.FixtureRecord{
		fixture("c", "01.03.2024", "12:00"),
		fixture("b", "29.02.2024", "12:00"),
		fixture("d", "02.01.2025", "12:00"),
		fixture("a", "31.12.2023", "12:00"),
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(SortChronologically(input)))
}

func TestSortChronologically_TimeBreaksTies(t *testing.T) {
	input := []model.FixtureRecord{
		fixture("late", "14.09.2025", "20:30"),
		fixture("early", "14.09.2025", "09:15"),
		fixture("noon-1", "14.09.2025", "12:00"),
		fixture("noon-2", "14.09.2025", "12:00"),
	}

	assert.Equal(t, []string{"early", "noon-1", "noon-2", "late"}, ids(SortChronologically(input)))
}

func TestSortChronologically_MalformedDatesSortByRawText(t *testing.T) {
	input := []model.FixtureRecord{
		fixture("valid", "14.09.2025", "18:00"),
		fixture("tbd", "TBD", "00:00"),
		fixture("blank", "", "00:00"),
	}

	// "" < "2025-09-14" < "TBD"
	assert.Equal(t, []string{"blank", "valid", "tbd"}, ids(SortChronologically(input)))
}

func TestSortChronologically_Empty(t *testing.T) {
	sorted := SortChronologically([]model.FixtureRecord{})
	require.NotNil(t, sorted)
	require.Empty(t, sorted)
}
