// Package streak counts the distinct days the app has been opened on.
package streak

import "time"

// dateLayout matches the browser's Date.prototype.toDateString, which is
// what older data dirs have in lastOpened.
const dateLayout = "Mon Jan 02 2006"

// DateKey returns the day marker stored alongside the streak.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// Update applies one app start to the stored streak. When the stored date
// is not today the streak grows by one and the caller should persist the
// new value together with today. There is no reset on missed days.
func Update(stored int, lastOpened, today string) (effective int, persist bool) {
	if stored < 0 {
		stored = 0
	}
	if lastOpened != today {
		return stored + 1, true
	}
	return stored, false
}
