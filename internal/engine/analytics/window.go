package analytics

import "time"

const dateLayout = "2006-01-02"

// DateKey is the UTC calendar date a request is aggregated under.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// WindowStart returns the first date of a trailing window of days calendar days
// ending today, so days=1 covers only today.
func WindowStart(now time.Time, days int) string {
	if days < 1 {
		days = 1
	}
	return DateKey(now.UTC().AddDate(0, 0, -(days - 1)))
}
