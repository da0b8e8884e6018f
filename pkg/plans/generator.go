package plans

import (
	"time"

	"github.com/lectioapp/lectio/pkg/models"
)

// GenerateInput drives one run of the detail generator. The Start* cursor
// fields exist for regeneration, which resumes mid-book instead of starting
// at chapter zero, page one, day one.
type GenerateInput struct {
	Chapters        []*models.Chapter // ordered by chapter number ascending
	StartDate       time.Time
	Days            int
	PagesPerDay     int
	IncludeWeekends bool
	DailyMinutes    int

	StartChapterIndex int
	StartPage         int // position within the starting chapter; zero means page 1
	StartDay          int // day index of the first generated day; zero means day 1
}

// genState is the generator's cursor between steps. Steps take a value and
// return a new one; nothing is mutated across iterations.
type genState struct {
	chapterIndex int
	page         int
	date         time.Time
	day          int
}

// nextSpan consumes up to remaining pages from the cursor's current chapter,
// returning the advanced state and the emitted span. ok is false once the
// chapter list is exhausted. A chapter whose page count is zero or already
// behind the cursor is skipped without emitting anything (emitted == nil).
func nextSpan(chapters []*models.Chapter, st genState, remaining, dailyMinutes int) (next genState, emitted *models.PlanDetail, ok bool) {
	if st.chapterIndex >= len(chapters) {
		return st, nil, false
	}

	chapter := chapters[st.chapterIndex]
	pages := chapter.Pages()
	if st.page > pages {
		st.page = 1
		st.chapterIndex++
		return st, nil, true
	}

	startPage := st.page
	endPage := startPage + remaining - 1
	if endPage > pages {
		endPage = pages
	}

	detail := &models.PlanDetail{
		ChapterID:        chapter.ID,
		AssignedDate:     models.DateOnly(st.date),
		Day:              st.day,
		StartPage:        startPage,
		EndPage:          endPage,
		EstimatedMinutes: dailyMinutes,
	}

	st.page = endPage + 1
	if st.page > pages {
		st.page = 1
		st.chapterIndex++
	}

	return st, detail, true
}

// GenerateDetails walks chapters and days in lockstep and emits one detail
// row per (day, chapter span) pair. Generation stops early when the book runs
// out before the day budget does. The emitted order is the persistence order:
// page and day continuity depend on it.
func GenerateDetails(in GenerateInput) []*models.PlanDetail {
	st := genState{
		chapterIndex: in.StartChapterIndex,
		page:         in.StartPage,
		date:         models.DateOnly(in.StartDate),
		day:          in.StartDay,
	}
	if st.page < 1 {
		st.page = 1
	}
	if st.day < 1 {
		st.day = 1
	}

	details := []*models.PlanDetail{}

	for dayOffset := 0; dayOffset < in.Days; dayOffset++ {
		if !in.IncludeWeekends {
			for isWeekend(st.date) {
				st.date = st.date.AddDate(0, 0, 1)
			}
		}

		remaining := in.PagesPerDay
		for remaining > 0 {
			next, detail, ok := nextSpan(in.Chapters, st, remaining, in.DailyMinutes)
			if !ok {
				return details
			}
			st = next
			if detail != nil {
				details = append(details, detail)
				remaining -= detail.Pages()
			}
		}

		st.date = st.date.AddDate(0, 0, 1)
		st.day++
	}

	return details
}
