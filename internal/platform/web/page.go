package web

import (
	"github.com/ehr/timeline/internal/domain/changes"
	"github.com/ehr/timeline/internal/domain/diagnosis"
	"github.com/ehr/timeline/internal/domain/medication"
	"github.com/ehr/timeline/internal/domain/timeline"
	"github.com/ehr/timeline/internal/viewmodel"
)

const (
	TabTimeline    = "timeline"
	TabMedications = "medications"
	TabDiagnoses   = "diagnoses"
	TabChanges     = "changes"
)

const (
	msgTimelineError          = "Error loading timeline. Please try again."
	msgMedicationsError       = "Error loading medications. Please try again."
	msgDiagnosesError         = "Error loading diagnoses. Please try again."
	msgDiagnosisChangesError  = "Error loading diagnosis changes."
	msgMedicationChangesError = "Error loading medication changes."
	msgUploadError            = "Error uploading files. Please try again."
	msgFetchError             = "Error fetching from API. Please try again."
)

var tabs = []struct{ id, label string }{
	{TabTimeline, "Timeline"},
	{TabMedications, "Medications"},
	{TabDiagnoses, "Diagnoses"},
	{TabChanges, "Changes"},
}

// NormalizeTab maps unknown or empty tab names to the timeline tab.
func NormalizeTab(tab string) string {
	for _, t := range tabs {
		if t.id == tab {
			return tab
		}
	}
	return TabTimeline
}

type Tab struct {
	ID     string
	Label  string
	Active bool
	Badge  bool
}

type CardView struct {
	timeline.Card
	Active bool
}

// PageQuery is the UI state carried in the page URL.
type PageQuery struct {
	Tab       string
	Encounter string
	Confirm   string
	Message   string
}

// PageData is everything the page template needs. Error fields hold the
// inline message of a failed section; they are empty otherwise.
type PageData struct {
	Tabs      []Tab
	Tab       string
	Encounter string
	Confirm   string
	Message   string

	Patient *timeline.PatientSummary

	TimelineLoading bool
	TimelineError   string
	Cards           []CardView
	Detail          *timeline.Detail

	MedicationsLoading bool
	MedicationsError   string
	Medications        []medication.View

	DiagnosesLoading bool
	DiagnosesError   string
	Diagnoses        []diagnosis.View

	ChangesLoading         bool
	DiagnosisChangesError  string
	MedicationChangesError string
	DiagnosisChanges       int
	MedicationChanges      int
	DiagnosisLinks         []changes.Link
	MedicationLinks        []changes.Link
}

// BuildPage projects a snapshot and the URL state into template data.
func BuildPage(s viewmodel.Snapshot, q PageQuery) PageData {
	p := PageData{
		Tab:       NormalizeTab(q.Tab),
		Encounter: q.Encounter,
		Confirm:   q.Confirm,
		Message:   q.Message,
	}

	switch {
	case s.Timeline.Failed():
		p.TimelineError = msgTimelineError
	case !s.Timeline.HasData():
		p.TimelineLoading = true
	default:
		tl := s.Timeline.Data
		p.Patient = tl.Patient()
		for _, c := range tl.Cards() {
			p.Cards = append(p.Cards, CardView{Card: c, Active: c.Filename == q.Encounter})
		}
		if q.Encounter != "" {
			if d, err := tl.SelectEncounterByFilename(q.Encounter); err == nil {
				p.Detail = d
			}
		}
	}

	switch {
	case s.Medications.Failed():
		p.MedicationsError = msgMedicationsError
	case !s.Medications.HasData():
		p.MedicationsLoading = true
	default:
		p.Medications = medication.Views(s.Medications.Data)
	}

	switch {
	case s.Diagnoses.Failed():
		p.DiagnosesError = msgDiagnosesError
	case !s.Diagnoses.HasData():
		p.DiagnosesLoading = true
	default:
		p.Diagnoses = diagnosis.Views(s.Diagnoses.Data)
	}

	switch {
	case s.Changes.Failed():
		p.DiagnosisChangesError = msgDiagnosisChangesError
		p.MedicationChangesError = msgMedicationChangesError
	case !s.Changes.HasData():
		p.ChangesLoading = true
	default:
		p.DiagnosisChanges = len(s.Changes.Data.DiagnosisChanges)
		p.MedicationChanges = len(s.Changes.Data.MedicationChanges)
		p.DiagnosisLinks = s.DiagnosisLinks
		p.MedicationLinks = s.MedicationLinks
	}

	hasChanges := s.Changes.HasData() && s.Changes.Data.HasChanges()
	for _, t := range tabs {
		p.Tabs = append(p.Tabs, Tab{
			ID:     t.id,
			Label:  t.label,
			Active: t.id == p.Tab,
			Badge:  t.id == TabChanges && hasChanges,
		})
	}
	return p
}
