package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ehr/timeline/internal/domain/changes"
	"github.com/ehr/timeline/internal/domain/diagnosis"
	"github.com/ehr/timeline/internal/domain/medication"
	"github.com/ehr/timeline/internal/viewmodel"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2f80ed"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			MarginTop(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#dfe6ee")).
			Padding(0, 1)

	dateStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f8c8d"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#2f80ed"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#95a5a6")).Italic(true)
	regularStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1e8449")).Bold(true)
	tempStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#b9770e")).Bold(true)
)

// renderSnapshot draws every section of s for a terminal. A failed section
// shows its error and the others are drawn normally.
func renderSnapshot(s viewmodel.Snapshot) string {
	var b strings.Builder
	renderTimeline(&b, s)
	renderMedications(&b, s.Medications)
	renderDiagnoses(&b, s.Diagnoses)
	renderChanges(&b, s)
	return b.String()
}

func renderTimeline(b *strings.Builder, s viewmodel.Snapshot) {
	b.WriteString(headerStyle.Render("Timeline") + "\n")
	switch {
	case s.Timeline.Failed():
		b.WriteString(errorStyle.Render("Error loading timeline. Please try again.") + "\n")
		return
	case s.Timeline.Data == nil || s.Timeline.Data.Len() == 0:
		b.WriteString(mutedStyle.Render("No medical records found. Upload .med files or fetch from API.") + "\n")
		return
	}

	if p := s.Timeline.Data.Patient(); p != nil {
		line := titleStyle.Render(p.DisplayName())
		for _, l := range []string{p.AgeLabel(), p.SexLabel()} {
			if l != "" {
				line += "  " + l
			}
		}
		b.WriteString(line + "\n")
	}

	for _, c := range s.Timeline.Data.Cards() {
		var body strings.Builder
		body.WriteString(dateStyle.Render(c.Date) + "\n")
		body.WriteString(lipgloss.NewStyle().Bold(true).Render(c.Diagnosis) + "\n")
		fmt.Fprintf(&body, "Medical conducts: %d prescriptions, %d exams, %d referrals", c.Prescriptions, c.Exams, c.Referrals)
		if len(c.Tags) > 0 {
			tags := make([]string, len(c.Tags))
			for i, t := range c.Tags {
				tags[i] = tagStyle.Render(t)
			}
			body.WriteString("\n" + strings.Join(tags, "  "))
		}
		b.WriteString(cardStyle.Render(body.String()) + "\n")
	}
}

func renderMedications(b *strings.Builder, sec viewmodel.Section[[]medication.Entry]) {
	b.WriteString(headerStyle.Render("Medications") + "\n")
	if sec.Failed() {
		b.WriteString(errorStyle.Render("Error loading medications. Please try again.") + "\n")
		return
	}
	views := medication.Views(sec.Data)
	if len(views) == 0 {
		b.WriteString(mutedStyle.Render("No medications in use.") + "\n")
		return
	}
	for _, v := range views {
		badge := tempStyle.Render(v.Badge)
		if v.RegularUse {
			badge = regularStyle.Render(v.Badge)
		}
		fmt.Fprintf(b, "%s  %s  %s\n", v.Name, dateStyle.Render("Added: "+v.DateAdded), badge)
	}
}

func renderDiagnoses(b *strings.Builder, sec viewmodel.Section[[]diagnosis.Entry]) {
	b.WriteString(headerStyle.Render("Diagnoses") + "\n")
	if sec.Failed() {
		b.WriteString(errorStyle.Render("Error loading diagnoses. Please try again.") + "\n")
		return
	}
	views := diagnosis.Views(sec.Data)
	if len(views) == 0 {
		b.WriteString(mutedStyle.Render("No diagnoses recorded.") + "\n")
		return
	}
	for _, v := range views {
		badge := tempStyle.Render(v.Badge)
		if v.Active {
			badge = regularStyle.Render(v.Badge)
		}
		fmt.Fprintf(b, "%s  %s  %s\n", v.Name, dateStyle.Render("Diagnosed: "+v.DateDiagnosed), badge)
	}
}

func renderChanges(b *strings.Builder, s viewmodel.Snapshot) {
	b.WriteString(headerStyle.Render("Changes") + "\n")
	if s.Changes.Failed() {
		b.WriteString(errorStyle.Render("Error loading diagnosis changes.") + "\n")
		b.WriteString(errorStyle.Render("Error loading medication changes.") + "\n")
		return
	}
	renderLinks(b, "New diagnosis", "No new diagnoses.", len(s.Changes.Data.DiagnosisChanges), s.DiagnosisLinks)
	renderLinks(b, "New medication", "No new medications.", len(s.Changes.Data.MedicationChanges), s.MedicationLinks)
}

// renderLinks prints the linked events. The empty text is shown only when
// there are no events; events without an encounter are left out.
func renderLinks(b *strings.Builder, label, empty string, events int, links []changes.Link) {
	if events == 0 {
		b.WriteString(mutedStyle.Render(empty) + "\n")
		return
	}
	for _, l := range links {
		fmt.Fprintf(b, "%s  %s: %s  %s\n", dateStyle.Render(l.Date), label, l.Subject, mutedStyle.Render(l.Filename))
	}
}
