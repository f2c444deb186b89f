// Package datefmt parses the loosely formatted timestamps produced by the
// records API and renders them the way the timeline pages display dates.
package datefmt

import (
	"strings"
	"time"
)

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parse reads an ISO-8601 style timestamp. Values without a zone are taken
// as UTC. The second return value is false when no layout matched.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateTime renders "Jan 5, 2023, 09:30 AM".
func DateTime(t time.Time) string {
	return t.Format("Jan 2, 2006, 03:04 PM")
}

// Date renders "Jan 5, 2023".
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// Numeric renders "1/5/2023".
func Numeric(t time.Time) string {
	return t.Format("1/2/2006")
}

// FileStamp renders "01-05-2023", safe for use inside file names.
func FileStamp(t time.Time) string {
	return t.Format("01-02-2006")
}

// Format parses s and renders it with fn, falling back to the raw value when
// s cannot be parsed.
func Format(s string, fn func(time.Time) string) string {
	t, ok := Parse(s)
	if !ok {
		return s
	}
	return fn(t)
}
