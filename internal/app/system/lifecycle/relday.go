// internal/app/system/lifecycle/relday.go
package lifecycle

import "time"

// RelativeDay renders target relative to now as "today", "tomorrow", or
// "on Mon, Jan 2" for anything further out. Both times are compared by
// calendar day in loc.
func RelativeDay(target, now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t := target.In(loc)
	n := now.In(loc)

	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)

	switch {
	case day.Equal(today):
		return "today"
	case day.Equal(today.AddDate(0, 0, 1)):
		return "tomorrow"
	default:
		return "on " + t.Format("Mon, Jan 2")
	}
}

// ClockTime renders the wall-clock time of t in loc, e.g. "4:30 PM".
func ClockTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("3:04 PM")
}
