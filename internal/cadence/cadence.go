// Package cadence maps qualitative recurrence descriptors to concrete
// reminder due dates.
//
// The policy encodes "how soon must I act", not "when is this legally due".
// A quarterly obligation gets a 14-day runway, a yearly one 30 days, a
// monthly one 7 days. It is a conservative reminder heuristic and must not
// be confused with a regulatory-deadline calendar - real filing deadlines
// live in the remote system of record, not here.
package cadence

import (
	"strings"
	"time"

	"github.com/regloapp/reglo/internal/identity"
)

// Runway windows, in days, per recurrence class.
const (
	quarterlyDays = 14
	yearlyDays    = 30
	monthlyDays   = 7
	defaultDays   = 7
)

// DueDate computes the reminder due date for a cadence descriptor.
//
// The descriptor is normalized the same way as identity text, then matched
// by substring; the first matching class wins, checked in order: quarter,
// year, month. Unrecognized or empty descriptors fall back to the monthly
// window. The result is a calendar date (no time-of-day) in ISO form.
//
// Pure: the same (cadence, now) pair always yields the same date.
func DueDate(cadence string, now time.Time) string {
	c := identity.Normalize(cadence)

	days := defaultDays
	switch {
	case strings.Contains(c, "quarter"):
		days = quarterlyDays
	case strings.Contains(c, "year"):
		days = yearlyDays
	case strings.Contains(c, "month"):
		days = monthlyDays
	}

	return now.AddDate(0, 0, days).Format("2006-01-02")
}
