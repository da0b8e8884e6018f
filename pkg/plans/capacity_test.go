package plans

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCapacityWithinBand(t *testing.T) {
	res := ValidateCapacity(10, 30)

	assert.True(t, res.KnownLevel)
	assert.False(t, res.Adjusted)
	assert.Equal(t, 10, res.PagesPerDay)
	assert.Equal(t, 30, res.DailyMinutes)
}

func TestValidateCapacityTooSlow(t *testing.T) {
	// 90 minutes for 20 pages is 4.5 min/page, far above the expert band.
	// The budget stays and the pace recalculates to 40 pages per day.
	res := ValidateCapacity(20, 90)

	assert.True(t, res.Adjusted)
	assert.Equal(t, 40, res.PagesPerDay)
	assert.Equal(t, 90, res.DailyMinutes)
	assert.Contains(t, res.Reason, "muy lento")
}

func TestValidateCapacityTooFast(t *testing.T) {
	// 15 minutes for 10 pages is 1.5 min/page, the band floor, so it's kept.
	res := ValidateCapacity(10, 15)
	assert.False(t, res.Adjusted)

	// 5 pages in 10 minutes is 2.0 min/page for a novice, also the floor.
	res = ValidateCapacity(5, 10)
	assert.False(t, res.Adjusted)

	// Below the floor the daily budget is raised instead.
	res = ValidateCapacity(15, 16)
	assert.True(t, res.Adjusted)
	assert.Equal(t, 15, res.PagesPerDay)
	assert.Equal(t, 19, res.DailyMinutes)
	assert.Contains(t, res.Reason, "muy rápido")
}

func TestValidateCapacityFractionallySlowKeepsPace(t *testing.T) {
	// 31 minutes for 5 pages is 6.2 min/page, just over the novice band, but
	// floor(31/6) is still 5 pages, so nothing changes and nothing is
	// reported as adjusted.
	res := ValidateCapacity(5, 31)

	assert.False(t, res.Adjusted)
	assert.Empty(t, res.Reason)
	assert.Equal(t, 5, res.PagesPerDay)
	assert.Equal(t, 31, res.DailyMinutes)
}

func TestValidateCapacityClampsTotalBudget(t *testing.T) {
	res := ValidateCapacity(5, 300)

	assert.True(t, res.Adjusted)
	assert.LessOrEqual(t, res.DailyMinutes, 45)
	assert.GreaterOrEqual(t, float64(res.DailyMinutes)/float64(res.PagesPerDay), 2.0)
}

func TestValidateCapacityClampsBudgetBeforePace(t *testing.T) {
	// An oversized budget is clamped into the expert band first (90 minutes)
	// and the pace is then recalculated against the clamped budget, not the
	// raw input.
	res := ValidateCapacity(20, 300)

	assert.True(t, res.Adjusted)
	assert.Equal(t, 90, res.DailyMinutes)
	assert.Equal(t, 40, res.PagesPerDay)
}

func TestValidateCapacityUnknownLevel(t *testing.T) {
	res := ValidateCapacity(7, 30)

	assert.False(t, res.KnownLevel)
	assert.False(t, res.Adjusted)
	assert.Equal(t, 7, res.PagesPerDay)
	assert.Equal(t, 30, res.DailyMinutes)
}

func TestValidateCapacityIdempotent(t *testing.T) {
	for level := range capacityProfiles {
		for minutes := 1; minutes <= 240; minutes++ {
			first := ValidateCapacity(level, minutes)
			second := ValidateCapacity(first.PagesPerDay, first.DailyMinutes)

			name := fmt.Sprintf("level=%d minutes=%d", level, minutes)
			assert.Equal(t, first.PagesPerDay, second.PagesPerDay, name)
			assert.Equal(t, first.DailyMinutes, second.DailyMinutes, name)
			assert.False(t, second.Adjusted, name)
		}
	}
}
