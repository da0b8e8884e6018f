package jobs

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lectioapp/lectio/pkg/migrations"
	"github.com/lectioapp/lectio/pkg/models"
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

func TestCreateAndRetrieveJob(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	planID := 7
	job := &models.Job{
		Type:       models.JobTypeDetectLate,
		Status:     models.JobStatusPending,
		DataParsed: models.JobDetectLateData{PlanID: &planID},
	}
	require.NoError(t, svc.CreateJob(ctx, job))
	require.NotZero(t, job.ID)
	assert.NotEmpty(t, job.Data)

	got, err := svc.RetrieveJob(ctx, RetrieveJobOptions{ID: &job.ID})
	require.NoError(t, err)
	assert.Equal(t, models.JobTypeDetectLate, got.Type)

	data, ok := got.DataParsed.(models.JobDetectLateData)
	require.True(t, ok)
	require.NotNil(t, data.PlanID)
	assert.Equal(t, planID, *data.PlanID)
}

func TestHasActiveJobByType_NoJobs(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	hasActive, err := svc.HasActiveJobByType(ctx, models.JobTypeDetectLate)
	require.NoError(t, err)
	assert.False(t, hasActive)
}

func TestHasActiveJobByType_PendingJob(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	job := &models.Job{
		Type:   models.JobTypeDetectLate,
		Status: models.JobStatusPending,
	}
	require.NoError(t, svc.CreateJob(ctx, job))

	hasActive, err := svc.HasActiveJobByType(ctx, models.JobTypeDetectLate)
	require.NoError(t, err)
	assert.True(t, hasActive)
}

func TestHasActiveJobByType_CompletedJob(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	job := &models.Job{
		Type:   models.JobTypeDetectLate,
		Status: models.JobStatusCompleted,
	}
	require.NoError(t, svc.CreateJob(ctx, job))

	hasActive, err := svc.HasActiveJobByType(ctx, models.JobTypeDetectLate)
	require.NoError(t, err)
	assert.False(t, hasActive)
}

func TestListJobsExcludesProcess(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	mine := "aaaa1111"
	theirs := "bbbb2222"

	job1 := &models.Job{Type: models.JobTypeDetectLate, Status: models.JobStatusInProgress, ProcessID: &mine}
	job2 := &models.Job{Type: models.JobTypeDetectLate, Status: models.JobStatusInProgress, ProcessID: &theirs}
	job3 := &models.Job{Type: models.JobTypeDetectLate, Status: models.JobStatusPending}
	for _, j := range []*models.Job{job1, job2, job3} {
		require.NoError(t, svc.CreateJob(ctx, j))
	}

	jobs, err := svc.ListJobs(ctx, ListJobsOptions{
		Statuses:           []string{models.JobStatusPending, models.JobStatusInProgress},
		ProcessIDToExclude: &mine,
	})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	for _, j := range jobs {
		assert.NotEqual(t, job1.ID, j.ID)
	}
}

func TestUpdateJob(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	job := &models.Job{Type: models.JobTypeDetectLate, Status: models.JobStatusPending}
	require.NoError(t, svc.CreateJob(ctx, job))

	job.Status = models.JobStatusCompleted
	require.NoError(t, svc.UpdateJob(ctx, job, UpdateJobOptions{Columns: []string{"status"}}))

	got, err := svc.RetrieveJob(ctx, RetrieveJobOptions{ID: &job.ID})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, got.Status)
}
