package medication

import "testing"

func TestEntry_Badge(t *testing.T) {
	e := Entry{Name: "Metformin", DateAdded: "2023-02-01"}
	if e.Badge() != "Temporary" || e.BadgeClass() != "badge-temporary" {
		t.Errorf("unexpected badge %q/%q", e.Badge(), e.BadgeClass())
	}
	e.RegularUse = true
	if e.Badge() != "Regular Use" || e.BadgeClass() != "badge-regular" {
		t.Errorf("unexpected badge %q/%q", e.Badge(), e.BadgeClass())
	}
}

func TestSortByName(t *testing.T) {
	entries := []Entry{
		{Name: "metformin"},
		{Name: "Atorvastatin"},
		{Name: "aspirin"},
		{Name: "Lisinopril"},
	}
	sorted := SortByName(entries)
	want := []string{"aspirin", "Atorvastatin", "Lisinopril", "metformin"}
	for i, w := range want {
		if sorted[i].Name != w {
			t.Errorf("position %d: expected %s, got %s", i, w, sorted[i].Name)
		}
	}
	if entries[0].Name != "metformin" {
		t.Error("input slice must not be reordered")
	}
}

func TestViews(t *testing.T) {
	views := Views([]Entry{{Name: "Metformin", DateAdded: "2023-02-01", RegularUse: false}})
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	v := views[0]
	if v.DateAdded != "Feb 1, 2023" {
		t.Errorf("unexpected date %q", v.DateAdded)
	}
	if v.Badge != "Temporary" || v.RegularUse {
		t.Errorf("unexpected view %+v", v)
	}
	if len(Views(nil)) != 0 {
		t.Error("expected no views for empty list")
	}
}

func TestWithRegularUse_OnlyTargetChanges(t *testing.T) {
	entries := []Entry{
		{Name: "Metformin", RegularUse: false},
		{Name: "Lisinopril", RegularUse: false},
		{Name: "Aspirin", RegularUse: true},
	}
	updated := WithRegularUse(entries, "Metformin", true)

	if !updated[0].RegularUse {
		t.Error("expected Metformin to become regular")
	}
	if updated[1].RegularUse || !updated[2].RegularUse {
		t.Error("other entries must be untouched")
	}
	if entries[0].RegularUse {
		t.Error("input slice must not be mutated")
	}
}

func TestWithRegularUse_RoundTrip(t *testing.T) {
	entries := []Entry{{Name: "Metformin", DateAdded: "2023-02-01", RegularUse: false}}
	before := Views(entries)[0]

	after := Views(WithRegularUse(WithRegularUse(entries, "Metformin", true), "Metformin", false))[0]
	if after != before {
		t.Errorf("round trip changed view: before %+v after %+v", before, after)
	}
}

func TestWithRegularUse_UnknownName(t *testing.T) {
	entries := []Entry{{Name: "Metformin"}}
	updated := WithRegularUse(entries, "Insulin", true)
	if updated[0].RegularUse {
		t.Error("unknown name must not change anything")
	}
}
