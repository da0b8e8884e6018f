package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Reading levels are expressed as nominal pages per day.
const (
	ReadingLevelNovato      = 5
	ReadingLevelIntermedio  = 10
	ReadingLevelProfesional = 15
	ReadingLevelExperto     = 20
)

// ReadingLevelFromName maps the API's level names onto pages-per-day values.
var ReadingLevelFromName = map[string]int{
	"novato":      ReadingLevelNovato,
	"intermedio":  ReadingLevelIntermedio,
	"profesional": ReadingLevelProfesional,
	"experto":     ReadingLevelExperto,
}

type ReadingProfile struct {
	bun.BaseModel `bun:"table:reading_profiles,alias:pf"`

	ID              int       `bun:",pk,nullzero" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	UserID          int       `bun:",nullzero" json:"user_id"`
	ReadingLevel    int       `bun:"nivel_lectura" json:"nivel_lectura"`
	DailyMinutes    int       `bun:"tiempo_lectura_diario" json:"tiempo_lectura_diario"`
	PreferredTime   *string   `bun:"hora_preferida" json:"hora_preferida,omitempty"`
	IncludeWeekends bool      `bun:"incluir_fines_de_semana" json:"incluir_fines_de_semana"`
}
