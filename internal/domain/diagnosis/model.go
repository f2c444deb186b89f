package diagnosis

import (
	"sort"

	"github.com/ehr/timeline/pkg/datefmt"
)

// Entry is a recorded diagnosis as served by GET /api/diagnoses. Entries
// are keyed by Name.
type Entry struct {
	Name          string `json:"name"`
	DateDiagnosed string `json:"date_diagnosed"`
	Active        bool   `json:"active"`
}

func (e Entry) Badge() string {
	if e.Active {
		return "Active"
	}
	return "Inactive"
}

func (e Entry) BadgeClass() string {
	if e.Active {
		return "badge-regular"
	}
	return "badge-temporary"
}

type View struct {
	Name          string
	DateDiagnosed string
	Active        bool
	Badge         string
	BadgeClass    string
}

// Views renders entries newest first.
func Views(entries []Entry) []View {
	sorted := SortNewestFirst(entries)
	views := make([]View, len(sorted))
	for i, e := range sorted {
		views[i] = View{
			Name:          e.Name,
			DateDiagnosed: datefmt.Format(e.DateDiagnosed, datefmt.Date),
			Active:        e.Active,
			Badge:         e.Badge(),
			BadgeClass:    e.BadgeClass(),
		}
	}
	return views
}

// SortNewestFirst returns a copy of entries ordered by diagnosis date,
// most recent first. Entries with the same date keep their order.
func SortNewestFirst(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := datefmt.Parse(out[i].DateDiagnosed)
		tj, _ := datefmt.Parse(out[j].DateDiagnosed)
		return ti.After(tj)
	})
	return out
}

// WithActive returns a copy of entries where every entry named name has its
// active flag set to active.
func WithActive(entries []Entry, name string, active bool) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	for i := range out {
		if out[i].Name == name {
			out[i].Active = active
		}
	}
	return out
}
