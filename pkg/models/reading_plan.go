package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	PlanStatusActive    = "ACTIVO"
	PlanStatusPaused    = "PAUSADO"
	PlanStatusCompleted = "COMPLETADO"
	PlanStatusCancelled = "CANCELADO"
)

var PlanStatuses = []string{
	PlanStatusActive,
	PlanStatusPaused,
	PlanStatusCompleted,
	PlanStatusCancelled,
}

type ReadingPlan struct {
	bun.BaseModel `bun:"table:reading_plans,alias:p"`

	ID              int       `bun:",pk,nullzero" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	UserID          int       `bun:",nullzero" json:"user_id"`
	BookID          int       `bun:",nullzero" json:"book_id"`
	ProfileID       int       `bun:",nullzero" json:"profile_id"`
	Title           *string   `bun:"titulo" json:"titulo,omitempty"`
	Description     *string   `bun:"descripcion" json:"descripcion,omitempty"`
	StartDate       time.Time `bun:"fecha_inicio" json:"fecha_inicio"`
	EndDate         time.Time `bun:"fecha_fin" json:"fecha_fin"`
	OriginalEndDate time.Time `bun:"fecha_fin_original" json:"fecha_fin_original"`
	Status          string    `bun:"estado,nullzero" json:"estado"`
	ProgressPct     float64   `bun:"progreso_porcentaje" json:"progreso_porcentaje"`
	PagesPerDay     int       `bun:"paginas_por_dia" json:"paginas_por_dia"`
	DailyMinutes    int       `bun:"tiempo_estimado_dia" json:"tiempo_estimado_dia"`
	IncludeWeekends bool      `bun:"incluir_fines_semana" json:"incluir_fines_semana"`
	DaysBehind      int       `bun:"dias_atraso" json:"dias_atraso"`

	// Relations
	Book    *Book           `bun:"rel:belongs-to,join:book_id=id" json:"libro,omitempty"`
	Profile *ReadingProfile `bun:"rel:belongs-to,join:profile_id=id" json:"perfil,omitempty"`
	Details []*PlanDetail   `bun:"rel:has-many,join:id=plan_id" json:"detalles,omitempty"`
}
