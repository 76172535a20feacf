// internal/app/system/lifecycle/startwindow.go
package lifecycle

import "time"

// StartWindow is the symmetric window around now in which a meeting counts
// as "starting now". The notifier sweep runs every minute, so a start stays
// inside the window across several ticks; the StartNotifiedAt marker on the
// meeting keeps that from producing duplicate sends.
const StartWindow = 5 * time.Minute

// InStartWindow reports whether start falls within now ± StartWindow.
func InStartWindow(start, now time.Time) bool {
	lo := now.Add(-StartWindow)
	hi := now.Add(StartWindow)
	return !start.Before(lo) && !start.After(hi)
}
