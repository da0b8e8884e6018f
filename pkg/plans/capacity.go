package plans

import (
	"fmt"
	"math"
)

// capacityProfile describes the realistic reading band for one reading level.
// Total minutes are per day; the per-page band is what separates a plausible
// pace from one that's too fast or too slow for that level.
type capacityProfile struct {
	MinTotalMinutes   int
	OptimalMinutes    int
	MaxTotalMinutes   int
	MinMinutesPerPage float64
	MaxMinutesPerPage float64
}

var capacityProfiles = map[int]capacityProfile{
	5:  {MinTotalMinutes: 10, OptimalMinutes: 25, MaxTotalMinutes: 45, MinMinutesPerPage: 2.0, MaxMinutesPerPage: 6.0},
	10: {MinTotalMinutes: 15, OptimalMinutes: 35, MaxTotalMinutes: 60, MinMinutesPerPage: 1.5, MaxMinutesPerPage: 4.0},
	15: {MinTotalMinutes: 15, OptimalMinutes: 45, MaxTotalMinutes: 75, MinMinutesPerPage: 1.25, MaxMinutesPerPage: 3.0},
	20: {MinTotalMinutes: 20, OptimalMinutes: 50, MaxTotalMinutes: 90, MinMinutesPerPage: 1.0, MaxMinutesPerPage: 2.25},
}

// CapacityResult is the outcome of validating a reading level against a daily
// minute budget.
type CapacityResult struct {
	PagesPerDay  int    `json:"paginas_por_dia"`
	DailyMinutes int    `json:"tiempo_diario"`
	Adjusted     bool   `json:"ajustado"`
	Reason       string `json:"razon,omitempty"`
	KnownLevel   bool   `json:"-"`
}

// ValidateCapacity checks whether the implied minutes-per-page for the given
// level is within that level's realistic band and adjusts either side if not:
// too fast raises the minute budget, too slow recalculates pages/day from the
// budget (never below one page). The budget is clamped to the level's total
// band first.
//
// The result is a fixed point: feeding the adjusted pair back in returns it
// unchanged. An unrecognized level passes through untouched; the caller
// decides whether that's worth a warning. Never fails.
func ValidateCapacity(level, dailyMinutes int) CapacityResult {
	res := CapacityResult{
		PagesPerDay:  level,
		DailyMinutes: dailyMinutes,
	}

	// A slow-pace adjustment can land on another recognized level, whose own
	// band may reject the budget again. Iterate until nothing changes;
	// pages/day only ever grows here, so this ends after a handful of steps.
	for range capacityProfiles {
		profile, ok := capacityProfiles[res.PagesPerDay]
		if !ok {
			return res
		}
		res.KnownLevel = true

		next := applyProfile(res, profile)
		if next.PagesPerDay == res.PagesPerDay && next.DailyMinutes == res.DailyMinutes {
			return next
		}
		res = next
	}

	return res
}

func applyProfile(res CapacityResult, profile capacityProfile) CapacityResult {
	if res.DailyMinutes < profile.MinTotalMinutes {
		res.DailyMinutes = profile.MinTotalMinutes
		res.Adjusted = true
		res.Reason = fmt.Sprintf("tiempo diario muy corto: se aumentó a %d minutos", res.DailyMinutes)
	} else if res.DailyMinutes > profile.MaxTotalMinutes {
		res.DailyMinutes = profile.MaxTotalMinutes
		res.Adjusted = true
		res.Reason = fmt.Sprintf("tiempo diario muy largo: se redujo a %d minutos", res.DailyMinutes)
	}

	minutesPerPage := float64(res.DailyMinutes) / float64(res.PagesPerDay)

	switch {
	case minutesPerPage < profile.MinMinutesPerPage:
		// Too fast for the level: give each page more time.
		res.DailyMinutes = int(math.Ceil(float64(res.PagesPerDay) * profile.MinMinutesPerPage))
		res.Adjusted = true
		res.Reason = fmt.Sprintf("ritmo muy rápido para el nivel: se aumentó el tiempo diario a %d minutos", res.DailyMinutes)
	case minutesPerPage > profile.MaxMinutesPerPage:
		// Too slow for the level: recalculate how many pages fit the budget.
		// The floor can land back on the current pages/day when the budget is
		// only fractionally over the band; that's close enough to keep as is.
		pages := int(math.Floor(float64(res.DailyMinutes) / profile.MaxMinutesPerPage))
		minutes := res.DailyMinutes
		if pages < 1 {
			pages = 1
			minutes = int(math.Ceil(profile.MaxMinutesPerPage))
		}
		if pages != res.PagesPerDay || minutes != res.DailyMinutes {
			res.PagesPerDay = pages
			res.DailyMinutes = minutes
			res.Adjusted = true
			res.Reason = fmt.Sprintf("ritmo muy lento para el nivel: se recalculó a %d páginas por día", res.PagesPerDay)
		}
	}

	return res
}
