package viewmodel

import (
	"github.com/ehr/timeline/internal/domain/changes"
	"github.com/ehr/timeline/internal/domain/diagnosis"
	"github.com/ehr/timeline/internal/domain/medication"
	"github.com/ehr/timeline/internal/domain/timeline"
)

// Snapshot is a consistent, caller-owned copy of every section.
type Snapshot struct {
	Timeline    Section[*timeline.Timeline]
	Medications Section[[]medication.Entry]
	Diagnoses   Section[[]diagnosis.Entry]
	Changes     Section[changes.Set]

	// Links are the change events resolved against Timeline.
	DiagnosisLinks  []changes.Link
	MedicationLinks []changes.Link
}

func (vm *ViewModel) Snapshot() Snapshot {
	vm.mu.RLock()
	s := Snapshot{
		// *timeline.Timeline is immutable once built.
		Timeline:    vm.timeline,
		Medications: vm.medications,
		Diagnoses:   vm.diagnoses,
		Changes:     vm.changes,
	}
	s.Medications.Data = append([]medication.Entry(nil), vm.medications.Data...)
	s.Diagnoses.Data = append([]diagnosis.Entry(nil), vm.diagnoses.Data...)
	s.Changes.Data = changes.Set{
		DiagnosisChanges:  append([]changes.Event(nil), vm.changes.Data.DiagnosisChanges...),
		MedicationChanges: append([]changes.Event(nil), vm.changes.Data.MedicationChanges...),
	}
	vm.mu.RUnlock()

	if s.Changes.HasData() {
		var tl *timeline.Timeline
		if s.Timeline.HasData() {
			tl = s.Timeline.Data
		}
		logger := vm.svc.Changes.Logger()
		s.DiagnosisLinks = changes.BuildChangeLinks(logger, changes.KindDiagnosis, s.Changes.Data.DiagnosisChanges, tl)
		s.MedicationLinks = changes.BuildChangeLinks(logger, changes.KindMedication, s.Changes.Data.MedicationChanges, tl)
	}
	return s
}
