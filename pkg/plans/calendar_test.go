package plans

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestProjectEndDateWithWeekends(t *testing.T) {
	// 2025-01-01 is a Wednesday.
	end := ProjectEndDate(date(2025, time.January, 1), 10, true)
	assert.Equal(t, date(2025, time.January, 11), end)
}

func TestProjectEndDateSkippingWeekends(t *testing.T) {
	// Jan 4/5 and 11/12 are weekends; ten weekdays from Wed Jan 1 land on
	// Wed Jan 15.
	end := ProjectEndDate(date(2025, time.January, 1), 10, false)
	assert.Equal(t, date(2025, time.January, 15), end)
}

func TestProjectEndDateZeroDays(t *testing.T) {
	start := date(2025, time.March, 3)
	assert.Equal(t, start, ProjectEndDate(start, 0, true))
	assert.Equal(t, start, ProjectEndDate(start, 0, false))
}

func TestReadingDaysBetween(t *testing.T) {
	start := date(2025, time.January, 1)

	assert.Equal(t, 10, ReadingDaysBetween(start, date(2025, time.January, 11), true))
	assert.Equal(t, 10, ReadingDaysBetween(start, date(2025, time.January, 15), false))
	assert.Equal(t, 0, ReadingDaysBetween(start, start, true))

	// From Saturday Jan 4 the first reading day without weekends is Monday
	// Jan 6.
	assert.Equal(t, 1, ReadingDaysBetween(date(2025, time.January, 4), date(2025, time.January, 6), false))
}

func TestReadingDaysBetweenInvertsProjection(t *testing.T) {
	starts := []time.Time{
		date(2025, time.June, 2), // Monday
		date(2025, time.June, 7), // Saturday
		date(2025, time.June, 8), // Sunday
	}
	for _, start := range starts {
		for _, includeWeekends := range []bool{true, false} {
			for days := 1; days <= 30; days++ {
				end := ProjectEndDate(start, days, includeWeekends)
				assert.Equal(t, days, ReadingDaysBetween(start, end, includeWeekends))
			}
		}
	}
}
