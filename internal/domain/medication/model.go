package medication

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ehr/timeline/pkg/datefmt"
)

// Entry is a medication in use as served by GET /api/medications-in-use.
// Entries are keyed by Name.
type Entry struct {
	Name       string `json:"name"`
	DateAdded  string `json:"date_added"`
	RegularUse bool   `json:"regular_use"`
}

func (e Entry) Badge() string {
	if e.RegularUse {
		return "Regular Use"
	}
	return "Temporary"
}

func (e Entry) BadgeClass() string {
	if e.RegularUse {
		return "badge-regular"
	}
	return "badge-temporary"
}

// View is the rendered form of an Entry.
type View struct {
	Name       string
	DateAdded  string
	RegularUse bool
	Badge      string
	BadgeClass string
}

// Views sorts entries by name in locale order and renders them.
func Views(entries []Entry) []View {
	sorted := SortByName(entries)
	views := make([]View, len(sorted))
	for i, e := range sorted {
		views[i] = View{
			Name:       e.Name,
			DateAdded:  datefmt.Format(e.DateAdded, datefmt.Date),
			RegularUse: e.RegularUse,
			Badge:      e.Badge(),
			BadgeClass: e.BadgeClass(),
		}
	}
	return views
}

// SortByName returns a copy of entries ordered by name using English
// collation, so "aspirin" and "Aspirin" sort together.
func SortByName(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	col := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// WithRegularUse returns a copy of entries where every entry named name has
// its regular-use flag set to regular. Other entries are untouched.
func WithRegularUse(entries []Entry, name string, regular bool) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	for i := range out {
		if out[i].Name == name {
			out[i].RegularUse = regular
		}
	}
	return out
}
