package timeline

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ehr/timeline/pkg/datefmt"
)

var ErrEncounterNotFound = errors.New("encounter not found")

// SortByTimestampAscending returns a copy of records ordered by parsed
// timestamp. The sort is stable: encounters sharing a timestamp keep their
// fetch order. Unparseable timestamps sort first.
func SortByTimestampAscending(records []EncounterRecord) []EncounterRecord {
	type keyed struct {
		at  time.Time
		rec EncounterRecord
	}
	ks := make([]keyed, len(records))
	for i, r := range records {
		ks[i] = keyed{at: r.Content.Time(), rec: r}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		return ks[i].at.Before(ks[j].at)
	})
	out := make([]EncounterRecord, len(ks))
	for i, k := range ks {
		out[i] = k.rec
	}
	return out
}

// Timeline is an immutable, chronologically sorted list of encounters. Every
// index it hands out refers to a position in the sorted order.
type Timeline struct {
	records []EncounterRecord
}

// New sorts records and wraps them in a Timeline. The input slice is not
// modified.
func New(records []EncounterRecord) *Timeline {
	return &Timeline{records: SortByTimestampAscending(records)}
}

func (t *Timeline) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Records returns a copy of the sorted records.
func (t *Timeline) Records() []EncounterRecord {
	if t == nil {
		return nil
	}
	out := make([]EncounterRecord, len(t.records))
	copy(out, t.records)
	return out
}

// At returns the record at sorted position i.
func (t *Timeline) At(i int) (EncounterRecord, error) {
	if t == nil || i < 0 || i >= len(t.records) {
		return EncounterRecord{}, fmt.Errorf("index %d: %w", i, ErrEncounterNotFound)
	}
	return t.records[i], nil
}

// Find looks an encounter up by filename and reports its sorted position.
func (t *Timeline) Find(filename string) (EncounterRecord, int, bool) {
	if t == nil {
		return EncounterRecord{}, -1, false
	}
	for i, r := range t.records {
		if r.Filename == filename {
			return r, i, true
		}
	}
	return EncounterRecord{}, -1, false
}

// IndexOfTimestamp returns the position of the first encounter whose raw
// timestamp equals ts exactly.
func (t *Timeline) IndexOfTimestamp(ts string) (int, bool) {
	if t == nil {
		return -1, false
	}
	for i, r := range t.records {
		if r.Content.Timestamp == ts {
			return i, true
		}
	}
	return -1, false
}

// SelectEncounter projects the encounter at sorted position index.
func (t *Timeline) SelectEncounter(index int) (*Detail, error) {
	rec, err := t.At(index)
	if err != nil {
		return nil, err
	}
	return project(index, rec), nil
}

// SelectEncounterByFilename projects the encounter stored under filename.
// Filenames stay valid across reloads, unlike positions.
func (t *Timeline) SelectEncounterByFilename(filename string) (*Detail, error) {
	rec, idx, ok := t.Find(filename)
	if !ok {
		return nil, fmt.Errorf("%s: %w", filename, ErrEncounterNotFound)
	}
	return project(idx, rec), nil
}

// Patient returns the summary of the latest encounter, or nil for an empty
// timeline.
func (t *Timeline) Patient() *PatientSummary {
	if t.Len() == 0 {
		return nil
	}
	latest := t.records[len(t.records)-1].Content
	return &PatientSummary{
		Name: latest.Name,
		Age:  string(latest.Age),
		Sex:  latest.Sex,
	}
}

// Cards builds the render list in sorted order.
func (t *Timeline) Cards() []Card {
	if t.Len() == 0 {
		return nil
	}
	cards := make([]Card, 0, len(t.records))
	for i, r := range t.records {
		mc := r.Content.MedicalConducts
		card := Card{
			Index:         i,
			Filename:      r.Filename,
			Date:          datefmt.Format(r.Content.Timestamp, datefmt.DateTime),
			Diagnosis:     r.Content.Diagnosis,
			Prescriptions: len(mc.Prescriptions),
			Exams:         len(mc.ExamRequests),
			Referrals:     len(mc.Referrals),
		}
		for _, p := range mc.Prescriptions {
			card.Tags = append(card.Tags, "Rx: "+p)
		}
		if card.Exams > 0 {
			card.Tags = append(card.Tags, fmt.Sprintf("Exams: %d", card.Exams))
		}
		if card.Referrals > 0 {
			card.Tags = append(card.Tags, fmt.Sprintf("Referrals: %d", card.Referrals))
		}
		cards = append(cards, card)
	}
	return cards
}

var sectionTitles = []struct {
	kind  string
	title string
}{
	{KindPrescription, "Prescriptions"},
	{KindExam, "Exam Requests"},
	{KindReferral, "Referrals"},
}

func project(index int, rec EncounterRecord) *Detail {
	d := &Detail{
		Index:     index,
		Filename:  rec.Filename,
		Date:      datefmt.Format(rec.Content.Timestamp, datefmt.DateTime),
		Diagnosis: rec.Content.Diagnosis,
		Encounter: rec.Content,
	}
	for _, st := range sectionTitles {
		items := rec.Content.MedicalConducts.Items(st.kind)
		if len(items) == 0 {
			continue
		}
		d.Sections = append(d.Sections, ConductSection{
			Kind:  st.kind,
			Title: st.title,
			Items: append([]string(nil), items...),
		})
	}
	return d
}
