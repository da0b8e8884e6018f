package reports

import (
	"context"
	"math"
	"time"

	"github.com/lectioapp/lectio/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// PlanStatistics summarizes one plan's schedule against what's been read.
type PlanStatistics struct {
	PlanID        int     `json:"plan_id"`
	Status        string  `json:"estado"`
	TotalChapters int     `json:"capitulos_totales"`
	ChaptersRead  int     `json:"capitulos_completados"`
	TotalPages    int     `json:"paginas_totales"`
	PagesRead     int     `json:"paginas_leidas"`
	ProgressPct   float64 `json:"progreso_porcentaje"`
	TotalDays     int     `json:"dias_totales"`
	CompletedDays int     `json:"dias_completados"`
	ElapsedDays   int     `json:"dias_transcurridos"`
	RemainingDays int     `json:"dias_restantes"`
	DaysBehind    int     `json:"dias_atraso"`
	AvgMinutes    float64 `json:"minutos_promedio"`
}

// HistoryStatistics summarizes a user's reading history across all plans.
type HistoryStatistics struct {
	TotalPlans     int     `json:"planes_totales"`
	ActivePlans    int     `json:"planes_activos"`
	CompletedPlans int     `json:"planes_completados"`
	PausedPlans    int     `json:"planes_pausados"`
	CancelledPlans int     `json:"planes_cancelados"`
	TotalDays      int     `json:"dias_totales"`
	CompletedDays  int     `json:"dias_completados"`
	PartialDays    int     `json:"dias_parciales"`
	LateDays       int     `json:"dias_atrasados"`
	PagesRead      int     `json:"paginas_leidas"`
	MinutesRead    int     `json:"minutos_leidos"`
	AvgPagesPerDay float64 `json:"paginas_promedio_dia"`
	AvgMinsPerDay  float64 `json:"minutos_promedio_dia"`
	AvgProgress    float64 `json:"progreso_promedio"`
	CurrentStreak  int     `json:"racha_actual"`
	BestStreak     int     `json:"mejor_racha"`
}

// WeekdayPattern is the average pages read for one weekday, Sunday is zero.
type WeekdayPattern struct {
	Weekday  int     `json:"dia_semana"`
	AvgPages float64 `json:"paginas_promedio"`
}

// PlanForecast is the dashboard's finish estimate for one active plan.
type PlanForecast struct {
	PlanID          int        `json:"plan_id"`
	Title           *string    `json:"titulo,omitempty"`
	ProgressPct     float64    `json:"progreso_porcentaje"`
	RemainingPages  int        `json:"paginas_restantes"`
	ScheduledEnd    time.Time  `json:"fecha_fin"`
	EstimatedFinish *time.Time `json:"fecha_fin_estimada,omitempty"`
}

// Dashboard aggregates cross-plan reading velocity and per-plan forecasts.
type Dashboard struct {
	VelocityPagesPerHour float64          `json:"velocidad_paginas_hora"`
	WeekdayPatterns      []WeekdayPattern `json:"patrones_semana"`
	Forecasts            []PlanForecast   `json:"proyecciones"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// PlanStatistics computes a plan's schedule statistics from its detail rows.
// Day counts are over distinct assigned dates, since a date can carry several
// chapter spans.
func (svc *Service) PlanStatistics(ctx context.Context, plan *models.ReadingPlan) (*PlanStatistics, error) {
	details := []*models.PlanDetail{}
	err := svc.db.
		NewSelect().
		Model(&details).
		Where("d.plan_id = ?", plan.ID).
		Order("d.dia ASC", "d.pagina_inicio ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	today := models.DateOnly(time.Now())

	stats := &PlanStatistics{
		PlanID:      plan.ID,
		Status:      plan.Status,
		ProgressPct: plan.ProgressPct,
		DaysBehind:  plan.DaysBehind,
	}

	type dayAgg struct {
		read   bool
		behind bool
	}
	days := map[time.Time]*dayAgg{}
	chapters := map[int]bool{}

	actualMinutes := 0
	actualSamples := 0

	for _, d := range details {
		if done, ok := chapters[d.ChapterID]; !ok {
			chapters[d.ChapterID] = d.Read
		} else if done && !d.Read {
			chapters[d.ChapterID] = false
		}
		stats.TotalPages += d.Pages()
		if d.Read {
			stats.PagesRead += d.Pages()
		}
		if d.ActualMinutes != nil {
			actualMinutes += *d.ActualMinutes
			actualSamples++
		}

		date := models.DateOnly(d.AssignedDate)
		agg, ok := days[date]
		if !ok {
			agg = &dayAgg{read: true}
			days[date] = agg
		}
		if !d.Read {
			agg.read = false
			if date.Before(today) {
				agg.behind = true
			}
		}
	}

	for _, done := range chapters {
		stats.TotalChapters++
		if done {
			stats.ChaptersRead++
		}
	}

	behind := 0
	for date, agg := range days {
		stats.TotalDays++
		if agg.read {
			stats.CompletedDays++
		}
		if agg.behind {
			behind++
		}
		if !date.After(today) {
			stats.ElapsedDays++
		}
	}
	stats.RemainingDays = stats.TotalDays - stats.ElapsedDays
	if stats.DaysBehind == 0 {
		stats.DaysBehind = behind
	}
	if actualSamples > 0 {
		stats.AvgMinutes = math.Round(float64(actualMinutes)/float64(actualSamples)*100) / 100
	}

	return stats, nil
}

// HistoryStatistics aggregates the user's plans and registered daily progress
// into lifetime totals and completion streaks.
func (svc *Service) HistoryStatistics(ctx context.Context, userID int) (*HistoryStatistics, error) {
	plans := []*models.ReadingPlan{}
	err := svc.db.
		NewSelect().
		Model(&plans).
		Where("p.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	stats := &HistoryStatistics{}
	progressSum := 0.0
	for _, plan := range plans {
		stats.TotalPlans++
		progressSum += plan.ProgressPct
		switch plan.Status {
		case models.PlanStatusActive:
			stats.ActivePlans++
		case models.PlanStatusCompleted:
			stats.CompletedPlans++
		case models.PlanStatusPaused:
			stats.PausedPlans++
		case models.PlanStatusCancelled:
			stats.CancelledPlans++
		}
	}
	if stats.TotalPlans > 0 {
		stats.AvgProgress = math.Round(progressSum/float64(stats.TotalPlans)*100) / 100
	}

	history, err := svc.userProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed := make([]bool, 0, len(history))
	for _, row := range history {
		stats.TotalDays++
		stats.PagesRead += row.PagesRead
		stats.MinutesRead += row.MinutesInvested
		switch row.DayStatus {
		case models.DayStatusCompleted:
			stats.CompletedDays++
		case models.DayStatusPartial:
			stats.PartialDays++
		case models.DayStatusLate:
			stats.LateDays++
		}
		completed = append(completed, row.DayStatus == models.DayStatusCompleted)
	}
	if stats.TotalDays > 0 {
		stats.AvgPagesPerDay = math.Round(float64(stats.PagesRead)/float64(stats.TotalDays)*100) / 100
		stats.AvgMinsPerDay = math.Round(float64(stats.MinutesRead)/float64(stats.TotalDays)*100) / 100
	}
	stats.CurrentStreak, stats.BestStreak = Streaks(completed)

	return stats, nil
}

// Dashboard computes reading velocity from the registered progress history
// and projects a finish date for every active plan at that velocity.
func (svc *Service) Dashboard(ctx context.Context, userID int) (*Dashboard, error) {
	history, err := svc.userProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalPages := 0
	totalMinutes := 0
	weekdayPages := map[time.Weekday]int{}
	weekdayDays := map[time.Weekday]int{}
	for _, row := range history {
		totalPages += row.PagesRead
		totalMinutes += row.MinutesInvested
		wd := models.DateOnly(row.Date).Weekday()
		weekdayPages[wd] += row.PagesRead
		weekdayDays[wd]++
	}

	dashboard := &Dashboard{
		WeekdayPatterns: []WeekdayPattern{},
		Forecasts:       []PlanForecast{},
	}
	if totalMinutes > 0 {
		dashboard.VelocityPagesPerHour = math.Round(float64(totalPages)/(float64(totalMinutes)/60)*100) / 100
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if weekdayDays[wd] == 0 {
			continue
		}
		dashboard.WeekdayPatterns = append(dashboard.WeekdayPatterns, WeekdayPattern{
			Weekday:  int(wd),
			AvgPages: math.Round(float64(weekdayPages[wd])/float64(weekdayDays[wd])*100) / 100,
		})
	}

	active := []*models.ReadingPlan{}
	err = svc.db.
		NewSelect().
		Model(&active).
		Where("p.user_id = ?", userID).
		Where("p.estado = ?", models.PlanStatusActive).
		Order("p.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	today := models.DateOnly(time.Now())
	for _, plan := range active {
		var remaining int
		err := svc.db.
			NewSelect().
			Model((*models.PlanDetail)(nil)).
			ColumnExpr("COALESCE(SUM(d.pagina_fin - d.pagina_inicio + 1), 0)").
			Where("d.plan_id = ?", plan.ID).
			Where("d.leido = ?", false).
			Scan(ctx, &remaining)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		forecast := PlanForecast{
			PlanID:         plan.ID,
			Title:          plan.Title,
			ProgressPct:    plan.ProgressPct,
			RemainingPages: remaining,
			ScheduledEnd:   plan.EndDate,
		}
		if remaining > 0 && plan.PagesPerDay > 0 {
			daysLeft := (remaining + plan.PagesPerDay - 1) / plan.PagesPerDay
			estimate := today.AddDate(0, 0, daysLeft)
			forecast.EstimatedFinish = &estimate
		}
		dashboard.Forecasts = append(dashboard.Forecasts, forecast)
	}

	return dashboard, nil
}

func (svc *Service) userProgress(ctx context.Context, userID int) ([]*models.ReadingProgress, error) {
	history := []*models.ReadingProgress{}
	err := svc.db.
		NewSelect().
		Model(&history).
		Join("JOIN reading_plans AS p ON p.id = pr.plan_id").
		Where("p.user_id = ?", userID).
		Order("pr.fecha ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return history, nil
}
