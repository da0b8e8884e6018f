package models

import (
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

const (
	JobStatusPending    = "pending"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

const (
	JobTypeDetectLate = "detect_late"
)

type Job struct {
	bun.BaseModel `bun:"table:jobs,alias:j"`

	ID         int         `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Type       string      `bun:",nullzero" json:"type"`
	Status     string      `bun:",nullzero" json:"status"`
	Data       string      `bun:",nullzero" json:"-"`
	DataParsed interface{} `bun:"-" json:"data"`
	Progress   int         `json:"progress"`
	ProcessID  *string     `json:"process_id,omitempty"`
}

func (job *Job) UnmarshalData() error {
	if job.Data == "" {
		return nil
	}
	switch job.Type {
	case JobTypeDetectLate:
		data := JobDetectLateData{}
		if err := json.Unmarshal([]byte(job.Data), &data); err != nil {
			return errors.WithStack(err)
		}
		job.DataParsed = data
	}
	return nil
}

// JobDetectLateData scopes a late-detection run. A nil PlanID means all
// active plans.
type JobDetectLateData struct {
	PlanID *int `json:"plan_id,omitempty"`
}
