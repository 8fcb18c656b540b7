package ui

import (
	"time"

	"github.com/idilsaglam/tada/internal/model"
)

// RelativeDate renders d relative to now: "Today", "Tomorrow", "Yesterday",
// a weekday within the coming week, "Last Monday" within the past week,
// otherwise "Jan 2" (same year) or "Jan 2 2006". No date renders as "".
func RelativeDate(d model.Date, now time.Time) string {
	if d.IsZero() {
		return ""
	}
	today := model.DateOf(now).Time()
	day := d.Time()
	diff := int(day.Sub(today).Hours() / 24)

	switch {
	case diff == 0:
		return "Today"
	case diff == 1:
		return "Tomorrow"
	case diff == -1:
		return "Yesterday"
	case diff > 1 && diff < 7:
		return day.Weekday().String()
	case diff < -1 && diff > -7:
		return "Last " + day.Weekday().String()
	case day.Year() == today.Year():
		return day.Format("Jan 2")
	default:
		return day.Format("Jan 2 2006")
	}
}

// Overdue reports whether d lies before the day of now.
func Overdue(d model.Date, now time.Time) bool {
	return !d.IsZero() && d.Time().Before(model.DateOf(now).Time())
}
