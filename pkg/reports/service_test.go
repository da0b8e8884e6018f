package reports

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lectioapp/lectio/pkg/migrations"
	"github.com/lectioapp/lectio/pkg/models"
	"github.com/lectioapp/lectio/pkg/plans"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func createFixturePlan(t *testing.T, db *bun.DB) (*models.User, *models.ReadingPlan, *plans.Service) {
	t.Helper()

	ctx := context.Background()
	now := time.Now()

	user := &models.User{
		CreatedAt:    now,
		UpdatedAt:    now,
		Username:     "ana",
		PasswordHash: "x",
		IsActive:     true,
	}
	_, err := db.NewInsert().Model(user).Returning("*").Exec(ctx)
	require.NoError(t, err)

	book := &models.Book{
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    user.ID,
		Title:     "Pedro Páramo",
		Author:    "Rulfo",
	}
	_, err = db.NewInsert().Model(book).Returning("*").Exec(ctx)
	require.NoError(t, err)

	pages := 100
	chapter := &models.Chapter{
		CreatedAt:      now,
		UpdatedAt:      now,
		BookID:         book.ID,
		Number:         1,
		Title:          "Único",
		EstimatedPages: &pages,
	}
	_, err = db.NewInsert().Model(chapter).Returning("*").Exec(ctx)
	require.NoError(t, err)

	planService := plans.NewService(db)
	plan, _, err := planService.CreatePlan(ctx, plans.CreatePlanInput{
		UserID:          user.ID,
		BookID:          book.ID,
		ReadingLevel:    models.ReadingLevelIntermedio,
		DailyMinutes:    30,
		IncludeWeekends: true,
		StartDate:       time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	return user, plan, planService
}

func TestPlanStatistics(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	_, plan, planService := createFixturePlan(t, db)

	for _, d := range plan.Details[:3] {
		_, err := planService.CompleteDetail(ctx, plan, d.ID, plans.CompleteDetailInput{
			ActualMinutes: intptr(20),
		})
		require.NoError(t, err)
	}

	stats, err := svc.PlanStatistics(ctx, plan)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalChapters)
	assert.Equal(t, 0, stats.ChaptersRead)
	assert.Equal(t, 100, stats.TotalPages)
	assert.Equal(t, 30, stats.PagesRead)
	assert.Equal(t, 10, stats.TotalDays)
	assert.Equal(t, 3, stats.CompletedDays)
	// Every assigned date is in the past relative to the test run.
	assert.Equal(t, 10, stats.ElapsedDays)
	assert.Equal(t, 0, stats.RemainingDays)
	assert.Equal(t, 7, stats.DaysBehind)
	assert.InDelta(t, 20, stats.AvgMinutes, 0.01)
	assert.InDelta(t, 30, stats.ProgressPct, 0.01)
}

func TestHistoryStatistics(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	user, plan, planService := createFixturePlan(t, db)

	statuses := []string{
		models.DayStatusCompleted,
		models.DayStatusCompleted,
		models.DayStatusPartial,
		models.DayStatusCompleted,
	}
	for i, status := range statuses {
		percent := 100.0
		if status != models.DayStatusCompleted {
			percent = 50
		}
		_, err := planService.RegisterProgress(ctx, plan, plans.RegisterProgressInput{
			Date:            time.Date(2025, time.January, 1+i, 0, 0, 0, 0, time.UTC),
			PagesRead:       10,
			MinutesInvested: 30,
			DayStatus:       status,
			DayPercent:      percent,
		})
		require.NoError(t, err)
	}

	stats, err := svc.HistoryStatistics(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalPlans)
	assert.Equal(t, 1, stats.ActivePlans)
	assert.Equal(t, 4, stats.TotalDays)
	assert.Equal(t, 3, stats.CompletedDays)
	assert.Equal(t, 1, stats.PartialDays)
	assert.Equal(t, 0, stats.LateDays)
	assert.Equal(t, 40, stats.PagesRead)
	assert.Equal(t, 120, stats.MinutesRead)
	assert.InDelta(t, 10, stats.AvgPagesPerDay, 0.01)
	assert.InDelta(t, 30, stats.AvgMinsPerDay, 0.01)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 2, stats.BestStreak)
}

func TestDashboard(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	user, plan, planService := createFixturePlan(t, db)

	// 20 pages over two hours is ten pages an hour.
	for i := 0; i < 2; i++ {
		_, err := planService.RegisterProgress(ctx, plan, plans.RegisterProgressInput{
			Date:            time.Date(2025, time.January, 1+i, 0, 0, 0, 0, time.UTC),
			PagesRead:       10,
			MinutesInvested: 60,
			DayStatus:       models.DayStatusCompleted,
			DayPercent:      100,
		})
		require.NoError(t, err)
	}

	dashboard, err := svc.Dashboard(ctx, user.ID)
	require.NoError(t, err)

	assert.InDelta(t, 10, dashboard.VelocityPagesPerHour, 0.01)
	assert.Len(t, dashboard.WeekdayPatterns, 2)
	require.Len(t, dashboard.Forecasts, 1)

	forecast := dashboard.Forecasts[0]
	assert.Equal(t, plan.ID, forecast.PlanID)
	assert.Equal(t, 100, forecast.RemainingPages)
	require.NotNil(t, forecast.EstimatedFinish)
	assert.True(t, forecast.EstimatedFinish.After(models.DateOnly(time.Now())))
}

func intptr(i int) *int {
	return &i
}
