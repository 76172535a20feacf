// Package lifecycle holds the time-driven meeting state logic: the auto-end
// sweep decision, the start-window test, and the before/after change
// classification that produces notification payloads.
//
// Every function takes the current time explicitly, already converted to
// the sweep's zone, so the package is testable with fixed clocks.
package lifecycle

import "time"

const (
	// MaxDuration is the hard cap: a meeting running longer than this is
	// ended regardless of clock time.
	MaxDuration = 6 * time.Hour

	// DayEndHour is the daily cutoff (21:00 local). Any in-progress meeting
	// is ended once the local hour reaches it.
	DayEndHour = 21

	// nearCutoffMinute begins the aggressive window before the cutoff.
	nearCutoffHour   = 20
	nearCutoffMinute = 45
)

// ShouldAutoEnd reports whether a meeting that started at start must be
// ended at now under the base rules: running past the hard cap, or the
// local clock has reached the daily cutoff.
func ShouldAutoEnd(start, now time.Time) bool {
	if now.Sub(start) > MaxDuration {
		return true
	}
	return now.Hour() >= DayEndHour
}

// NearDayEndCutoff reports whether now falls in the aggressive window: from
// 20:45 up to and past the 21:00 cutoff.
func NearDayEndCutoff(now time.Time) bool {
	if now.Hour() == nearCutoffHour && now.Minute() >= nearCutoffMinute {
		return true
	}
	return now.Hour() >= DayEndHour
}

// SweepShouldEnd is the full auto-end decision for one meeting: the base
// rules, or the aggressive branch that force-ends anything that started
// today once the process nears the daily cutoff.
func SweepShouldEnd(start, now time.Time) bool {
	if ShouldAutoEnd(start, now) {
		return true
	}
	return NearDayEndCutoff(now) && sameDay(start, now)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
