// Package status maps application statuses to their presentation: timeline, badge and description.
package status

import "strings"

// Status is an application's position in the hiring pipeline.
type Status string

const (
	Pending     Status = "pending"
	Reviewing   Status = "reviewing"
	Shortlisted Status = "shortlisted"
	Interview   Status = "interview"
	Selected    Status = "selected"
	Rejected    Status = "rejected"
)

// All lists every status in pipeline order, rejected last. Employers may set any of them.
var All = []Status{Pending, Reviewing, Shortlisted, Interview, Selected, Rejected}

// Parse returns the known status for s (case-insensitive). ok is false for empty or unknown input.
func Parse(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range All {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// Normalize returns s if it is known and Pending otherwise; a missing or unrecognized status is presented as pending.
func Normalize(s Status) Status {
	if st, ok := Parse(string(s)); ok {
		return st
	}
	return Pending
}

// Label returns the capitalized display name ("Pending", "Shortlisted", ...).
func Label(s Status) string {
	n := string(Normalize(s))
	return strings.ToUpper(n[:1]) + n[1:]
}

// BadgeClass returns the CSS-style badge class for s, e.g. "status-badge reviewing".
func BadgeClass(s Status) string {
	return "status-badge " + string(Normalize(s))
}

var descriptions = map[Status]string{
	Pending:     "Your application is pending review by the employer.",
	Reviewing:   "The employer is currently reviewing your application.",
	Shortlisted: "Congratulations! You've been shortlisted for this position.",
	Interview:   "You've been selected for an interview. The employer may contact you soon.",
	Selected:    "Congratulations! You've been selected for this position.",
	Rejected:    "We're sorry, but your application was not selected for this position.",
}

// Description returns the sentence shown to the applicant for s.
func Description(s Status) string {
	return descriptions[Normalize(s)]
}

// Step is one stage of the progress timeline.
type Step struct {
	Status Status
	Title  string
	Active bool
}

var timeline = []struct {
	status Status
	title  string
}{
	{Pending, "Applied"},
	{Reviewing, "Reviewing"},
	{Shortlisted, "Shortlisted"},
	{Interview, "Interview"},
	{Selected, "Selected"},
}

// Timeline returns the five pipeline steps with every step up to and including s marked active.
// A rejected application keeps only "Applied" active: the pipeline position it reached is not known.
// The web client also lit "Reviewing" for rejected; rejection never advances the timeline here.
func Timeline(s Status) []Step {
	s = Normalize(s)
	reached := 0
	for i, t := range timeline {
		if t.status == s {
			reached = i
		}
	}
	out := make([]Step, len(timeline))
	for i, t := range timeline {
		out[i] = Step{Status: t.status, Title: t.title, Active: i <= reached}
	}
	return out
}

// Counts tallies statuses after normalization. Every known status is present in the result.
func Counts(statuses []Status) map[Status]int {
	out := make(map[Status]int, len(All))
	for _, s := range All {
		out[s] = 0
	}
	for _, s := range statuses {
		out[Normalize(s)]++
	}
	return out
}

// Matches reports whether s passes a filter tab. An empty filter ("all") matches everything.
func Matches(s, filter Status) bool {
	if filter == "" {
		return true
	}
	return Normalize(s) == Normalize(filter)
}
