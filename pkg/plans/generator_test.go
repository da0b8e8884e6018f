package plans

import (
	"testing"
	"time"

	"github.com/lectioapp/lectio/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intptr(i int) *int {
	return &i
}

func testChapters(pages ...int) []*models.Chapter {
	chapters := make([]*models.Chapter, 0, len(pages))
	for i, p := range pages {
		chapters = append(chapters, &models.Chapter{
			ID:             i + 1,
			Number:         i + 1,
			EstimatedPages: intptr(p),
		})
	}
	return chapters
}

func TestGenerateDetailsSingleChapter(t *testing.T) {
	details := GenerateDetails(GenerateInput{
		Chapters:        testChapters(100),
		StartDate:       date(2025, time.January, 1),
		Days:            10,
		PagesPerDay:     10,
		IncludeWeekends: true,
		DailyMinutes:    30,
	})

	require.Len(t, details, 10)
	for i, d := range details {
		assert.Equal(t, i+1, d.Day)
		assert.Equal(t, i*10+1, d.StartPage)
		assert.Equal(t, (i+1)*10, d.EndPage)
		assert.Equal(t, date(2025, time.January, 1+i), d.AssignedDate)
		assert.Equal(t, 30, d.EstimatedMinutes)
	}
}

func TestGenerateDetailsSplitsAcrossChapters(t *testing.T) {
	// 12 + 8 pages at 10 per day: day one ends the first chapter plus nothing
	// else fits? No: day one takes pages 1-10 of chapter one; day two takes
	// 11-12 of chapter one and 1-8 of chapter two.
	details := GenerateDetails(GenerateInput{
		Chapters:        testChapters(12, 8),
		StartDate:       date(2025, time.January, 1),
		Days:            2,
		PagesPerDay:     10,
		IncludeWeekends: true,
		DailyMinutes:    20,
	})

	require.Len(t, details, 3)

	assert.Equal(t, 1, details[0].Day)
	assert.Equal(t, 1, details[0].StartPage)
	assert.Equal(t, 10, details[0].EndPage)

	assert.Equal(t, 2, details[1].Day)
	assert.Equal(t, 11, details[1].StartPage)
	assert.Equal(t, 12, details[1].EndPage)

	assert.Equal(t, 2, details[2].Day)
	assert.Equal(t, 2, details[2].ChapterID)
	assert.Equal(t, 1, details[2].StartPage)
	assert.Equal(t, 8, details[2].EndPage)
	assert.Equal(t, details[1].AssignedDate, details[2].AssignedDate)
}

func TestGenerateDetailsSkipsWeekends(t *testing.T) {
	// 2025-01-03 is a Friday.
	details := GenerateDetails(GenerateInput{
		Chapters:        testChapters(30),
		StartDate:       date(2025, time.January, 3),
		Days:            3,
		PagesPerDay:     10,
		IncludeWeekends: false,
		DailyMinutes:    30,
	})

	require.Len(t, details, 3)
	assert.Equal(t, date(2025, time.January, 3), details[0].AssignedDate)
	assert.Equal(t, date(2025, time.January, 6), details[1].AssignedDate)
	assert.Equal(t, date(2025, time.January, 7), details[2].AssignedDate)
}

func TestGenerateDetailsSkipsZeroPageChapters(t *testing.T) {
	chapters := testChapters(10, 0, 10)
	chapters[1].EstimatedPages = nil

	details := GenerateDetails(GenerateInput{
		Chapters:        chapters,
		StartDate:       date(2025, time.January, 1),
		Days:            2,
		PagesPerDay:     10,
		IncludeWeekends: true,
		DailyMinutes:    30,
	})

	require.Len(t, details, 2)
	assert.Equal(t, 1, details[0].ChapterID)
	assert.Equal(t, 3, details[1].ChapterID)
}

func TestGenerateDetailsStopsWhenBookEnds(t *testing.T) {
	details := GenerateDetails(GenerateInput{
		Chapters:        testChapters(15),
		StartDate:       date(2025, time.January, 1),
		Days:            10,
		PagesPerDay:     10,
		IncludeWeekends: true,
		DailyMinutes:    30,
	})

	require.Len(t, details, 2)
	assert.Equal(t, 15, details[1].EndPage)
}

func TestGenerateDetailsResumesFromCursor(t *testing.T) {
	details := GenerateDetails(GenerateInput{
		Chapters:          testChapters(20, 20),
		StartDate:         date(2025, time.February, 3),
		Days:              10,
		PagesPerDay:       10,
		IncludeWeekends:   true,
		DailyMinutes:      30,
		StartChapterIndex: 0,
		StartPage:         11,
		StartDay:          3,
	})

	require.Len(t, details, 3)

	assert.Equal(t, 3, details[0].Day)
	assert.Equal(t, 1, details[0].ChapterID)
	assert.Equal(t, 11, details[0].StartPage)
	assert.Equal(t, 20, details[0].EndPage)

	assert.Equal(t, 4, details[1].Day)
	assert.Equal(t, 2, details[1].ChapterID)
	assert.Equal(t, 1, details[1].StartPage)
	assert.Equal(t, 10, details[1].EndPage)

	assert.Equal(t, 5, details[2].Day)
	assert.Equal(t, 11, details[2].StartPage)
	assert.Equal(t, 20, details[2].EndPage)
}

func TestGenerateDetailsCoversEveryPageOnce(t *testing.T) {
	chapters := testChapters(7, 13, 0, 29, 1)

	details := GenerateDetails(GenerateInput{
		Chapters:        chapters,
		StartDate:       date(2025, time.January, 1),
		Days:            100,
		PagesPerDay:     6,
		IncludeWeekends: true,
		DailyMinutes:    25,
	})

	seen := map[int]map[int]bool{}
	total := 0
	for _, d := range details {
		require.LessOrEqual(t, d.StartPage, d.EndPage)
		for p := d.StartPage; p <= d.EndPage; p++ {
			if seen[d.ChapterID] == nil {
				seen[d.ChapterID] = map[int]bool{}
			}
			require.False(t, seen[d.ChapterID][p], "page assigned twice")
			seen[d.ChapterID][p] = true
			total++
		}
	}

	assert.Equal(t, 7+13+29+1, total)
	for _, chapter := range chapters {
		for p := 1; p <= chapter.Pages(); p++ {
			assert.True(t, seen[chapter.ID][p], "page never assigned")
		}
	}
}
