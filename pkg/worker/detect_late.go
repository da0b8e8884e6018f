package worker

import (
	"context"
	"time"

	"github.com/lectioapp/lectio/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// ProcessDetectLateJob flags unread detail rows whose assigned date has
// passed and refreshes each affected plan's days-behind counter. The job's
// data can scope the run to one plan; otherwise every active plan is swept.
func (w *Worker) ProcessDetectLateJob(ctx context.Context, job *models.Job) error {
	log := logger.FromContext(ctx)

	data, ok := job.DataParsed.(models.JobDetectLateData)
	if !ok && job.Data != "" {
		if err := job.UnmarshalData(); err != nil {
			return errors.WithStack(err)
		}
		data, _ = job.DataParsed.(models.JobDetectLateData)
	}

	swept, flagged, err := w.planService.FlagOverdueDetails(ctx, data.PlanID, models.DateOnly(time.Now()))
	if err != nil {
		return err
	}

	log.Info("late detection finished", logger.Data{"plans": swept, "flagged": flagged})

	return nil
}
