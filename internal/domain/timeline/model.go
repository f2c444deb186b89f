package timeline

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ehr/timeline/pkg/datefmt"
)

// Kinds of medical conduct an encounter can carry.
const (
	KindPrescription = "prescription"
	KindExam         = "exam"
	KindReferral     = "referral"
)

// EncounterRecord is one encounter file as served by GET /api/timeline.
type EncounterRecord struct {
	Filename string    `json:"filename"`
	Content  Encounter `json:"content"`
}

// Encounter is the parsed content of a .med file.
type Encounter struct {
	Timestamp       string          `json:"timestamp"`
	Name            string          `json:"name"`
	Age             Age             `json:"age"`
	Sex             string          `json:"sex"`
	Diagnosis       string          `json:"diagnosis"`
	MedicalConducts MedicalConducts `json:"medical_conducts"`
}

type MedicalConducts struct {
	Prescriptions []string `json:"prescriptions"`
	ExamRequests  []string `json:"exam_requests"`
	Referrals     []string `json:"referrals"`
}

// Items returns the conducts of the given kind, or nil for an unknown kind.
func (m MedicalConducts) Items(kind string) []string {
	switch kind {
	case KindPrescription:
		return m.Prescriptions
	case KindExam:
		return m.ExamRequests
	case KindReferral:
		return m.Referrals
	default:
		return nil
	}
}

// Age is carried as text; the records API emits it either as a number or a
// string depending on the source file.
type Age string

func (a *Age) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Age(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*a = Age(strconv.FormatInt(i, 10))
		return nil
	}
	*a = Age(n.String())
	return nil
}

// Time returns the parsed encounter timestamp; unparseable values yield the
// zero time.
func (e Encounter) Time() time.Time {
	t, _ := datefmt.Parse(e.Timestamp)
	return t
}

// Card is the timeline entry rendered for one encounter.
type Card struct {
	Index         int
	Filename      string
	Date          string
	Diagnosis     string
	Prescriptions int
	Exams         int
	Referrals     int
	Tags          []string
}

// Detail is the projection shown in the side panel when an encounter is
// selected.
type Detail struct {
	Index     int
	Filename  string
	Date      string
	Diagnosis string
	Encounter Encounter
	Sections  []ConductSection
}

// ConductSection is one non-empty list of medical conducts in a Detail.
type ConductSection struct {
	Kind  string
	Title string
	Items []string
}

// PatientSummary is derived from the most recent encounter.
type PatientSummary struct {
	Name string
	Age  string
	Sex  string
}

// DisplayName returns the patient name or "Unknown Patient".
func (p PatientSummary) DisplayName() string {
	if p.Name == "" {
		return "Unknown Patient"
	}
	return p.Name
}

// AgeLabel returns "Age: N", or an empty string when the age is unknown.
func (p PatientSummary) AgeLabel() string {
	if p.Age == "" {
		return ""
	}
	return "Age: " + p.Age
}

// SexLabel returns "Sex: F..." with the first letter upper-cased, or an
// empty string when the sex is unknown.
func (p PatientSummary) SexLabel() string {
	if p.Sex == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(p.Sex)
	return "Sex: " + string(unicode.ToUpper(r)) + p.Sex[size:]
}
