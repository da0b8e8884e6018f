package plans

import "time"

// isWeekend reports whether the date falls on a Saturday or Sunday.
func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ProjectEndDate computes the calendar date on which the last of daysNeeded
// reading days lands. With weekends included that's plain date arithmetic;
// with weekends excluded the walk only counts Monday through Friday.
// daysNeeded of zero returns the start date unchanged.
func ProjectEndDate(start time.Time, daysNeeded int, includeWeekends bool) time.Time {
	if includeWeekends {
		return start.AddDate(0, 0, daysNeeded)
	}

	current := start
	counted := 0
	for counted < daysNeeded {
		current = current.AddDate(0, 0, 1)
		if !isWeekend(current) {
			counted++
		}
	}
	return current
}

// ReadingDaysBetween counts the reading days in (start, end]. It is the
// inverse of ProjectEndDate, which walks forward from the day after start,
// so projecting the returned count from start lands back on end.
func ReadingDaysBetween(start, end time.Time, includeWeekends bool) int {
	count := 0
	for d := start.AddDate(0, 0, 1); !d.After(end); d = d.AddDate(0, 0, 1) {
		if includeWeekends || !isWeekend(d) {
			count++
		}
	}
	return count
}
