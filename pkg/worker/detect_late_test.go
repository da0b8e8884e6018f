package worker

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lectioapp/lectio/pkg/config"
	"github.com/lectioapp/lectio/pkg/migrations"
	"github.com/lectioapp/lectio/pkg/models"
	"github.com/lectioapp/lectio/pkg/plans"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
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

func newTestWorker(t *testing.T, db *bun.DB) *Worker {
	t.Helper()

	cfg := &config.Config{WorkerProcesses: 1}
	return New(cfg, db)
}

func createOverduePlan(t *testing.T, db *bun.DB) *models.ReadingPlan {
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

	book := &models.Book{CreatedAt: now, UpdatedAt: now, UserID: user.ID, Title: "Libro", Author: "Autor"}
	_, err = db.NewInsert().Model(book).Returning("*").Exec(ctx)
	require.NoError(t, err)

	pages := 30
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
	require.Len(t, plan.Details, 3)

	return plan
}

func TestProcessDetectLateJob(t *testing.T) {
	db := newTestDB(t)
	w := newTestWorker(t, db)
	ctx := context.Background()

	plan := createOverduePlan(t, db)

	// Complete day one so only days two and three are overdue.
	planService := plans.NewService(db)
	_, err := planService.CompleteDetail(ctx, plan, plan.Details[0].ID, plans.CompleteDetailInput{})
	require.NoError(t, err)

	job := &models.Job{Type: models.JobTypeDetectLate, DataParsed: models.JobDetectLateData{}}
	require.NoError(t, w.ProcessDetectLateJob(ctx, job))

	details := []*models.PlanDetail{}
	err = db.NewSelect().
		Model(&details).
		Where("d.plan_id = ?", plan.ID).
		Order("d.dia ASC").
		Scan(ctx)
	require.NoError(t, err)
	require.Len(t, details, 3)

	assert.False(t, details[1].Read)
	assert.True(t, details[1].IsLate)
	assert.True(t, details[2].IsLate)

	got := &models.ReadingPlan{}
	err = db.NewSelect().Model(got).Where("p.id = ?", plan.ID).Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, got.DaysBehind)
}

func TestProcessDetectLateJobScopedToPlan(t *testing.T) {
	db := newTestDB(t)
	w := newTestWorker(t, db)
	ctx := context.Background()

	plan := createOverduePlan(t, db)

	other := -1
	job := &models.Job{
		Type:       models.JobTypeDetectLate,
		DataParsed: models.JobDetectLateData{PlanID: &other},
	}
	require.NoError(t, w.ProcessDetectLateJob(ctx, job))

	count, err := db.NewSelect().
		Model((*models.PlanDetail)(nil)).
		Where("plan_id = ?", plan.ID).
		Where("es_atrasado = ?", true).
		Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestProcessDetectLateJobIgnoresInactivePlans(t *testing.T) {
	db := newTestDB(t)
	w := newTestWorker(t, db)
	ctx := context.Background()

	plan := createOverduePlan(t, db)

	planService := plans.NewService(db)
	require.NoError(t, planService.UpdateStatus(ctx, plan, models.PlanStatusPaused))

	job := &models.Job{Type: models.JobTypeDetectLate, DataParsed: models.JobDetectLateData{}}
	require.NoError(t, w.ProcessDetectLateJob(ctx, job))

	count, err := db.NewSelect().
		Model((*models.PlanDetail)(nil)).
		Where("plan_id = ?", plan.ID).
		Where("es_atrasado = ?", true).
		Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
