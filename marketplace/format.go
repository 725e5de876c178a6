package marketplace

import (
	"fmt"
	"time"

	"kisan_bazaar/models"
)

// FormatPosted buckets a posting time for display relative to now.
func FormatPosted(l models.Listing, now time.Time) string {
	if l.Pending || !l.DatePosted.After(Epoch) {
		return "Pending..."
	}

	posted := l.DatePosted.In(now.Location())
	days := calendarDaysBetween(posted, now)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return posted.Format("2 Jan 2006")
	}
}

func calendarDaysBetween(from, to time.Time) int {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
