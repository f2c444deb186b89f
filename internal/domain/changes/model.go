package changes

// Kind tells which field of an Event carries the subject.
type Kind string

const (
	KindDiagnosis  Kind = "diagnosis"
	KindMedication Kind = "medication"
)

// Event is a diagnosis or medication that appeared in the latest encounter.
type Event struct {
	Timestamp  string `json:"timestamp"`
	Diagnosis  string `json:"diagnosis,omitempty"`
	Medication string `json:"medication,omitempty"`
}

// Subject returns the diagnosis or medication name for kind.
func (e Event) Subject(kind Kind) string {
	if kind == KindMedication {
		return e.Medication
	}
	return e.Diagnosis
}

// Set is the GET /api/changes payload.
type Set struct {
	DiagnosisChanges  []Event `json:"diagnosis_changes"`
	MedicationChanges []Event `json:"medication_changes"`
}

// HasChanges reports whether the changes tab should carry a badge.
func (s Set) HasChanges() bool {
	return len(s.DiagnosisChanges) > 0 || len(s.MedicationChanges) > 0
}

// Link is a change event resolved against the current timeline.
type Link struct {
	Kind     Kind
	Subject  string
	Date     string
	Filename string
	Index    int
}
