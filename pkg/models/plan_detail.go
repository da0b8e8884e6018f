package models

import (
	"time"

	"github.com/uptrace/bun"
)

// PlanDetail is one row of a plan's schedule: a page span within a chapter
// assigned to a specific date. Generated in bulk, marked read one by one.
type PlanDetail struct {
	bun.BaseModel `bun:"table:plan_details,alias:d"`

	ID                  int        `bun:",pk,nullzero" json:"id"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	PlanID              int        `bun:",nullzero" json:"plan_id"`
	ChapterID           int        `bun:",nullzero" json:"chapter_id"`
	AssignedDate        time.Time  `bun:"fecha_asignada" json:"fecha_asignada"`
	Day                 int        `bun:"dia" json:"dia"`
	StartPage           int        `bun:"pagina_inicio" json:"pagina_inicio"`
	EndPage             int        `bun:"pagina_fin" json:"pagina_fin"`
	EstimatedMinutes    int        `bun:"tiempo_estimado_minutos" json:"tiempo_estimado_minutos"`
	Read                bool       `bun:"leido" json:"leido"`
	ActualMinutes       *int       `bun:"tiempo_real_minutos" json:"tiempo_real_minutos,omitempty"`
	PerceivedDifficulty *int       `bun:"dificultad_percibida" json:"dificultad_percibida,omitempty"`
	CompletedAt         *time.Time `bun:"fecha_completado" json:"fecha_completado,omitempty"`
	Notes               *string    `bun:"notas" json:"notas,omitempty"`
	IsLate              bool       `bun:"es_atrasado" json:"es_atrasado"`

	// Relations
	Chapter *Chapter `bun:"rel:belongs-to,join:chapter_id=id" json:"capitulo,omitempty"`
}

// Pages returns the size of the detail's page span, clamped at zero.
func (d *PlanDetail) Pages() int {
	pages := d.EndPage - d.StartPage + 1
	if pages < 0 {
		return 0
	}
	return pages
}
