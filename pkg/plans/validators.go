package plans

type createPlanPayload struct {
	BookID          int     `json:"book_id" validate:"required,min=1"`
	Title           *string `json:"titulo" validate:"omitempty,max=512"`
	Description     *string `json:"descripcion" validate:"omitempty,max=2000"`
	ReadingLevel    string  `json:"nivel_lectura" validate:"required,readinglevel"`
	DailyMinutes    int     `json:"tiempo_lectura_diario" validate:"required,min=1,max=480"`
	PreferredTime   *string `json:"hora_preferida" validate:"omitempty,max=32"`
	IncludeWeekends bool    `json:"incluir_fines_semana"`
	StartDate       string  `json:"fecha_inicio" validate:"required,date"`
	TargetEndDate   *string `json:"fecha_limite" validate:"omitempty,date"`
}

type updatePlanPayload struct {
	Title           *string `json:"titulo" validate:"omitempty,max=512"`
	Description     *string `json:"descripcion" validate:"omitempty,max=2000"`
	PreferredTime   *string `json:"hora_preferida" validate:"omitempty,max=32"`
	ReadingLevel    *string `json:"nivel_lectura" validate:"omitempty,readinglevel"`
	DailyMinutes    *int    `json:"tiempo_lectura_diario" validate:"omitempty,min=1,max=480"`
	IncludeWeekends *bool   `json:"incluir_fines_semana"`
}

type updateStatusPayload struct {
	Status string `json:"estado" validate:"required,oneof=ACTIVO PAUSADO COMPLETADO CANCELADO"`
}

type completeDetailPayload struct {
	ActualMinutes       *int    `json:"tiempo_real_minutos" validate:"omitempty,min=0,max=1440"`
	PerceivedDifficulty *int    `json:"dificultad_percibida" validate:"omitempty,min=1,max=5"`
	Notes               *string `json:"notas" validate:"omitempty,max=2000"`
}

type registerProgressPayload struct {
	Date            string  `json:"fecha" validate:"required,date"`
	PagesRead       int     `json:"paginas_leidas" validate:"min=0"`
	MinutesInvested int     `json:"tiempo_invertido_min" validate:"min=0,max=1440"`
	DayStatus       string  `json:"estado_dia" validate:"required,oneof=PENDIENTE COMPLETADO PARCIAL ATRASADO SALTADO"`
	DayPercent      float64 `json:"porcentaje_dia" validate:"min=0,max=100"`
	Notes           *string `json:"notas_dia" validate:"omitempty,max=2000"`
}

type listPlansQuery struct {
	Limit  *int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset *int    `query:"offset" validate:"omitempty,min=0"`
	BookID *int    `query:"book_id" validate:"omitempty,min=1"`
	Status *string `query:"estado" validate:"omitempty,oneof=ACTIVO PAUSADO COMPLETADO CANCELADO"`
}

type listDetailsQuery struct {
	Read *bool `query:"leido"`
}
