package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	DayStatusPending   = "PENDIENTE"
	DayStatusCompleted = "COMPLETADO"
	DayStatusPartial   = "PARCIAL"
	DayStatusLate      = "ATRASADO"
	DayStatusSkipped   = "SALTADO"
)

var DayStatuses = []string{
	DayStatusPending,
	DayStatusCompleted,
	DayStatusPartial,
	DayStatusLate,
	DayStatusSkipped,
}

// ReadingProgress records what actually happened on one date, independent of
// which detail rows exist for that date. One row per (plan, date).
type ReadingProgress struct {
	bun.BaseModel `bun:"table:reading_progress,alias:pr"`

	ID              int       `bun:",pk,nullzero" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	PlanID          int       `bun:",nullzero" json:"plan_id"`
	Date            time.Time `bun:"fecha" json:"fecha"`
	PagesRead       int       `bun:"paginas_leidas" json:"paginas_leidas"`
	MinutesInvested int       `bun:"tiempo_invertido_min" json:"tiempo_invertido_min"`
	DayStatus       string    `bun:"estado_dia,nullzero" json:"estado_dia"`
	DayPercent      float64   `bun:"porcentaje_dia" json:"porcentaje_dia"`
	Notes           *string   `bun:"notas_dia" json:"notas_dia,omitempty"`
}

// DateOnly truncates a timestamp to its calendar date in UTC. Progress rows
// and detail assignment dates are keyed by date, not time of day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
