package reconcile

import (
	"sort"
	"strings"
)

// Dated is anything carrying a DD.MM.YYYY date and a zero-padded HH:MM time
type Dated interface {
	DateString() string
	TimeString() string
}

// ToSortableDate converts DD.MM.YYYY to YYYY-MM-DD so that plain string
// comparison orders dates correctly. Anything that is not exactly three
// dot-separated parts is returned unchanged.
func ToSortableDate(date string) string {
	parts := strings.Split(date, ".")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

// SortChronologically returns a copy of items ordered by date, then time.
// Equal keys keep their input order. items is not modified.
//
// Malformed dates are compared in their original text form.
func SortChronologically[T Dated](items []T) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := ToSortableDate(sorted[i].DateString()), ToSortableDate(sorted[j].DateString())
		if di != dj {
			return di < dj
		}
		return sorted[i].TimeString() < sorted[j].TimeString()
	})

	return sorted
}
