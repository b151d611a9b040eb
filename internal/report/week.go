package report

import "time"

// WeekStart returns 00:00 UTC on the Monday of the ISO-8601 week containing t.
// t is converted to UTC first, so a Sunday 23:30 in UTC-5 belongs to the next
// week.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	back := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	y, m, d := t.Date()
	return time.Date(y, m, d-back, 0, 0, 0, 0, time.UTC)
}
