package plans

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/lectioapp/lectio/pkg/errcodes"
	"github.com/lectioapp/lectio/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type CreatePlanInput struct {
	UserID          int
	BookID          int
	Title           *string
	Description     *string
	ReadingLevel    int
	DailyMinutes    int
	PreferredTime   *string
	IncludeWeekends bool
	StartDate       time.Time
	TargetEndDate   *time.Time
}

type RetrievePlanOptions struct {
	ID             *int
	UserID         *int
	IncludeDetails bool
	IncludeBook    bool
}

type ListPlansOptions struct {
	Limit  *int
	Offset *int
	UserID *int
	BookID *int
	Status *string

	includeTotal bool
}

// UpdatePlanOptions carries the fields an update may touch. Changing the
// reading level, the daily minute budget, or weekend inclusion invalidates
// the unread part of the schedule and triggers regeneration.
type UpdatePlanOptions struct {
	Title           *string
	Description     *string
	PreferredTime   *string
	ReadingLevel    *int
	DailyMinutes    *int
	IncludeWeekends *bool
}

type CompleteDetailInput struct {
	ActualMinutes       *int
	PerceivedDifficulty *int
	Notes               *string
}

type RegisterProgressInput struct {
	Date            time.Time
	PagesRead       int
	MinutesInvested int
	DayStatus       string
	DayPercent      float64
	Notes           *string
}

type ListDetailsOptions struct {
	Read *bool
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreatePlan validates the requested pace, projects the calendar, generates
// the day-by-day schedule and persists profile, plan and details in one
// transaction. Returned warnings describe any automatic pace adjustment.
func (svc *Service) CreatePlan(ctx context.Context, input CreatePlanInput) (*models.ReadingPlan, []string, error) {
	book := &models.Book{}
	err := svc.db.
		NewSelect().
		Model(book).
		Relation("Chapters", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("c.numero_capitulo ASC")
		}).
		Where("b.id = ?", input.BookID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, errcodes.NotFound("Book")
		}
		return nil, nil, errors.WithStack(err)
	}
	if book.UserID != input.UserID {
		return nil, nil, errcodes.Forbidden("Planning another user's book")
	}

	totalPages := book.TotalPages()
	if len(book.Chapters) == 0 || totalPages == 0 {
		return nil, nil, errcodes.DependencyFailure("The book has no usable chapter index to schedule.")
	}

	warnings := []string{}
	capacity := ValidateCapacity(input.ReadingLevel, input.DailyMinutes)
	if capacity.Adjusted {
		warnings = append(warnings, capacity.Reason)
	}

	start := models.DateOnly(input.StartDate)
	pagesPerDay := capacity.PagesPerDay
	dailyMinutes := capacity.DailyMinutes
	daysNeeded := ceilDiv(totalPages, pagesPerDay)

	if input.TargetEndDate != nil {
		target := models.DateOnly(*input.TargetEndDate)
		if !target.After(start) {
			return nil, nil, errcodes.ValidationError("La fecha límite debe ser posterior a la fecha de inicio.")
		}

		available := ReadingDaysBetween(start, target, input.IncludeWeekends)
		if available <= 0 {
			return nil, nil, errcodes.ValidationError("No hay días de lectura disponibles antes de la fecha límite.")
		}

		required := ceilDiv(totalPages, available)
		if required <= pagesPerDay {
			// The deadline is reachable at or below capacity. Spread the book
			// over the available days instead of finishing early.
			pagesPerDay = required
			daysNeeded = ceilDiv(totalPages, pagesPerDay)
		} else {
			warnings = append(warnings, fmt.Sprintf("Plan ajustado automáticamente (de %d a %d días)", available, daysNeeded))
		}
	}

	endDate := ProjectEndDate(start, daysNeeded, input.IncludeWeekends)

	details := GenerateDetails(GenerateInput{
		Chapters:        book.Chapters,
		StartDate:       start,
		Days:            daysNeeded,
		PagesPerDay:     pagesPerDay,
		IncludeWeekends: input.IncludeWeekends,
		DailyMinutes:    dailyMinutes,
	})
	if len(details) == 0 {
		return nil, nil, errcodes.DependencyFailure("Schedule generation produced no reading days.")
	}

	now := time.Now()
	profile := &models.ReadingProfile{
		CreatedAt:       now,
		UpdatedAt:       now,
		UserID:          input.UserID,
		ReadingLevel:    input.ReadingLevel,
		DailyMinutes:    dailyMinutes,
		PreferredTime:   input.PreferredTime,
		IncludeWeekends: input.IncludeWeekends,
	}

	plan := &models.ReadingPlan{
		CreatedAt:       now,
		UpdatedAt:       now,
		UserID:          input.UserID,
		BookID:          input.BookID,
		Title:           input.Title,
		Description:     input.Description,
		StartDate:       start,
		EndDate:         endDate,
		OriginalEndDate: endDate,
		Status:          models.PlanStatusActive,
		PagesPerDay:     pagesPerDay,
		DailyMinutes:    dailyMinutes,
		IncludeWeekends: input.IncludeWeekends,
	}

	err = svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(profile).Returning("*").Exec(ctx); err != nil {
			return errors.WithStack(err)
		}

		plan.ProfileID = profile.ID
		if _, err := tx.NewInsert().Model(plan).Returning("*").Exec(ctx); err != nil {
			return errors.WithStack(err)
		}

		for _, detail := range details {
			detail.PlanID = plan.ID
			detail.CreatedAt = now
			detail.UpdatedAt = now
		}
		if _, err := tx.NewInsert().Model(&details).Returning("*").Exec(ctx); err != nil {
			return errors.WithStack(err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	plan.Profile = profile
	plan.Details = details
	plan.Book = book

	return plan, warnings, nil
}

func (svc *Service) RetrievePlan(ctx context.Context, opts RetrievePlanOptions) (*models.ReadingPlan, error) {
	plan := &models.ReadingPlan{}

	q := svc.db.
		NewSelect().
		Model(plan).
		Relation("Profile")

	if opts.IncludeBook {
		q = q.Relation("Book").Relation("Book.Chapters", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("c.numero_capitulo ASC")
		})
	}
	if opts.IncludeDetails {
		q = q.Relation("Details", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("d.dia ASC", "d.pagina_inicio ASC")
		})
	}
	if opts.ID != nil {
		q = q.Where("p.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Reading plan")
		}
		return nil, errors.WithStack(err)
	}

	if opts.UserID != nil && plan.UserID != *opts.UserID {
		return nil, errcodes.Forbidden("Accessing another user's plan")
	}

	return plan, nil
}

func (svc *Service) ListPlans(ctx context.Context, opts ListPlansOptions) ([]*models.ReadingPlan, error) {
	p, _, err := svc.listPlansWithTotal(ctx, opts)
	return p, errors.WithStack(err)
}

func (svc *Service) ListPlansWithTotal(ctx context.Context, opts ListPlansOptions) ([]*models.ReadingPlan, int, error) {
	opts.includeTotal = true
	return svc.listPlansWithTotal(ctx, opts)
}

func (svc *Service) listPlansWithTotal(ctx context.Context, opts ListPlansOptions) ([]*models.ReadingPlan, int, error) {
	plans := []*models.ReadingPlan{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&plans).
		Relation("Book").
		Order("p.created_at DESC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}
	if opts.UserID != nil {
		q = q.Where("p.user_id = ?", *opts.UserID)
	}
	if opts.BookID != nil {
		q = q.Where("p.book_id = ?", *opts.BookID)
	}
	if opts.Status != nil {
		q = q.Where("p.estado = ?", *opts.Status)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return plans, total, nil
}

// UpdatePlan applies the given changes. Cosmetic fields are plain column
// updates; a change to the reading level, the minute budget, or weekend
// inclusion regenerates the unread schedule while preserving every completed
// detail row.
func (svc *Service) UpdatePlan(ctx context.Context, plan *models.ReadingPlan, opts UpdatePlanOptions) ([]string, error) {
	if plan.Profile == nil {
		return nil, errors.New("plan profile not loaded")
	}

	level := plan.Profile.ReadingLevel
	if opts.ReadingLevel != nil {
		level = *opts.ReadingLevel
	}
	dailyMinutes := plan.Profile.DailyMinutes
	if opts.DailyMinutes != nil {
		dailyMinutes = *opts.DailyMinutes
	}
	includeWeekends := plan.IncludeWeekends
	if opts.IncludeWeekends != nil {
		includeWeekends = *opts.IncludeWeekends
	}

	critical := level != plan.Profile.ReadingLevel ||
		dailyMinutes != plan.Profile.DailyMinutes ||
		includeWeekends != plan.IncludeWeekends

	now := time.Now()
	planColumns := []string{}
	if opts.Title != nil {
		plan.Title = opts.Title
		planColumns = append(planColumns, "titulo")
	}
	if opts.Description != nil {
		plan.Description = opts.Description
		planColumns = append(planColumns, "descripcion")
	}
	if opts.PreferredTime != nil {
		plan.Profile.PreferredTime = opts.PreferredTime
		plan.Profile.UpdatedAt = now

		_, err := svc.db.
			NewUpdate().
			Model(plan.Profile).
			Column("hora_preferida", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if len(planColumns) > 0 {
		plan.UpdatedAt = now
		planColumns = append(planColumns, "updated_at")

		_, err := svc.db.
			NewUpdate().
			Model(plan).
			Column(planColumns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if !critical {
		return nil, nil
	}

	return svc.regenerate(ctx, plan, level, dailyMinutes, includeWeekends)
}

// regenerate rebuilds the unread tail of a plan's schedule. Completed detail
// rows are never touched; generation resumes from the page after the last
// completed span, numbered from the highest completed day.
func (svc *Service) regenerate(ctx context.Context, plan *models.ReadingPlan, level, dailyMinutes int, includeWeekends bool) ([]string, error) {
	chapters := []*models.Chapter{}
	err := svc.db.
		NewSelect().
		Model(&chapters).
		Where("c.book_id = ?", plan.BookID).
		Order("c.numero_capitulo ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(chapters) == 0 {
		return nil, errcodes.DependencyFailure("The book has no usable chapter index to schedule.")
	}

	completed := []*models.PlanDetail{}
	err = svc.db.
		NewSelect().
		Model(&completed).
		Where("d.plan_id = ?", plan.ID).
		Where("d.leido = ?", true).
		Order("d.dia ASC", "d.pagina_inicio ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	unreadIDs := []int{}
	err = svc.db.
		NewSelect().
		Model((*models.PlanDetail)(nil)).
		Column("d.id").
		Where("d.plan_id = ?", plan.ID).
		Where("d.leido = ?", false).
		Scan(ctx, &unreadIDs)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	startChapterIndex := 0
	startPage := 1
	startDay := 1
	resumeStart := models.DateOnly(time.Now())

	if len(completed) > 0 {
		last := completed[len(completed)-1]
		startChapterIndex = chapterIndexByID(chapters, last.ChapterID)
		startPage = last.EndPage + 1

		for _, d := range completed {
			if d.Day >= startDay {
				startDay = d.Day + 1
			}
			nextDate := models.DateOnly(d.AssignedDate).AddDate(0, 0, 1)
			if nextDate.After(resumeStart) {
				resumeStart = nextDate
			}
		}
	}

	remaining := remainingPages(chapters, startChapterIndex, startPage)

	warnings := []string{}
	capacity := ValidateCapacity(level, dailyMinutes)
	if capacity.Adjusted {
		warnings = append(warnings, capacity.Reason)
	}

	details := []*models.PlanDetail{}
	endDate := resumeStart
	if remaining > 0 {
		daysNeeded := ceilDiv(remaining, capacity.PagesPerDay)
		endDate = ProjectEndDate(resumeStart, daysNeeded, includeWeekends)

		details = GenerateDetails(GenerateInput{
			Chapters:          chapters,
			StartDate:         resumeStart,
			Days:              daysNeeded,
			PagesPerDay:       capacity.PagesPerDay,
			IncludeWeekends:   includeWeekends,
			DailyMinutes:      capacity.DailyMinutes,
			StartChapterIndex: startChapterIndex,
			StartPage:         startPage,
			StartDay:          startDay,
		})
	}

	progress := 0.0
	if total := len(completed) + len(details); total > 0 {
		progress = math.Round(float64(len(completed))/float64(total)*10000) / 100
	}

	now := time.Now()
	plan.Profile.ReadingLevel = level
	plan.Profile.DailyMinutes = capacity.DailyMinutes
	plan.Profile.IncludeWeekends = includeWeekends
	plan.Profile.UpdatedAt = now
	plan.EndDate = endDate
	plan.PagesPerDay = capacity.PagesPerDay
	plan.DailyMinutes = capacity.DailyMinutes
	plan.IncludeWeekends = includeWeekends
	plan.ProgressPct = progress
	plan.UpdatedAt = now

	err = svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.
			NewUpdate().
			Model(plan.Profile).
			Column("nivel_lectura", "tiempo_lectura_diario", "incluir_fines_de_semana", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		if len(unreadIDs) > 0 {
			// The leido guard keeps rows completed since the snapshot from
			// being deleted under a concurrent completion.
			_, err := tx.
				NewDelete().
				Model((*models.PlanDetail)(nil)).
				Where("d.id IN (?)", bun.In(unreadIDs)).
				Where("d.leido = ?", false).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		if len(details) > 0 {
			for _, detail := range details {
				detail.PlanID = plan.ID
				detail.CreatedAt = now
				detail.UpdatedAt = now
			}
			if _, err := tx.NewInsert().Model(&details).Returning("*").Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		_, err = tx.
			NewUpdate().
			Model(plan).
			Column("fecha_fin", "paginas_por_dia", "tiempo_estimado_dia", "incluir_fines_semana", "progreso_porcentaje", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return warnings, nil
}

// UpdateStatus moves the plan between its lifecycle states. Marking a plan
// COMPLETADO by hand is only allowed once every scheduled page is read.
func (svc *Service) UpdateStatus(ctx context.Context, plan *models.ReadingPlan, status string) error {
	valid := false
	for _, s := range models.PlanStatuses {
		if s == status {
			valid = true
			break
		}
	}
	if !valid {
		return errcodes.ValidationError(fmt.Sprintf("%q is not a valid plan status.", status))
	}

	if status == models.PlanStatusCompleted && plan.ProgressPct < 100 {
		return errcodes.ValidationError("The plan still has unread pages and can't be marked COMPLETADO.")
	}

	plan.Status = status
	plan.UpdatedAt = time.Now()

	_, err := svc.db.
		NewUpdate().
		Model(plan).
		Column("estado", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// DeletePlan removes the plan and everything hanging off it. The cascade is
// explicit: SQLite only honors ON DELETE CASCADE with the foreign-key pragma
// on, which isn't guaranteed across connections.
func (svc *Service) DeletePlan(ctx context.Context, plan *models.ReadingPlan) error {
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.
			NewDelete().
			Model((*models.ReadingProgress)(nil)).
			Where("pr.plan_id = ?", plan.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.
			NewDelete().
			Model((*models.PlanDetail)(nil)).
			Where("d.plan_id = ?", plan.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.
			NewDelete().
			Model((*models.ReadingPlan)(nil)).
			Where("p.id = ?", plan.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.
			NewDelete().
			Model((*models.ReadingProfile)(nil)).
			Where("pf.id = ?", plan.ProfileID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// CompleteDetail marks one scheduled span as read and refreshes the plan's
// progress percentage. Completing the final span flips the plan to
// COMPLETADO.
func (svc *Service) CompleteDetail(ctx context.Context, plan *models.ReadingPlan, detailID int, input CompleteDetailInput) (*models.PlanDetail, error) {
	detail := &models.PlanDetail{}
	err := svc.db.
		NewSelect().
		Model(detail).
		Where("d.id = ?", detailID).
		Where("d.plan_id = ?", plan.ID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Plan detail")
		}
		return nil, errors.WithStack(err)
	}

	now := time.Now()
	today := models.DateOnly(now)

	detail.Read = true
	detail.CompletedAt = &now
	detail.IsLate = today.After(models.DateOnly(detail.AssignedDate))
	detail.UpdatedAt = now
	if input.ActualMinutes != nil {
		detail.ActualMinutes = input.ActualMinutes
	}
	if input.PerceivedDifficulty != nil {
		detail.PerceivedDifficulty = input.PerceivedDifficulty
	}
	if input.Notes != nil {
		detail.Notes = input.Notes
	}

	err = svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.
			NewUpdate().
			Model(detail).
			Column("leido", "fecha_completado", "es_atrasado", "tiempo_real_minutos", "dificultad_percibida", "notas", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		return svc.refreshProgress(ctx, tx, plan)
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return detail, nil
}

// refreshProgress recomputes the plan's progress percentage from its detail
// rows inside the caller's transaction.
func (svc *Service) refreshProgress(ctx context.Context, tx bun.Tx, plan *models.ReadingPlan) error {
	var counts struct {
		Total int `bun:"total"`
		Read  int `bun:"read"`
	}

	err := tx.
		NewSelect().
		Model((*models.PlanDetail)(nil)).
		ColumnExpr("COUNT(*) AS total").
		ColumnExpr("COALESCE(SUM(CASE WHEN d.leido THEN 1 ELSE 0 END), 0) AS read").
		Where("d.plan_id = ?", plan.ID).
		Scan(ctx, &counts)
	if err != nil {
		return errors.WithStack(err)
	}

	progress := 0.0
	if counts.Total > 0 {
		progress = math.Round(float64(counts.Read)/float64(counts.Total)*10000) / 100
	}

	plan.ProgressPct = progress
	plan.UpdatedAt = time.Now()
	columns := []string{"progreso_porcentaje", "updated_at"}

	if progress >= 100 && plan.Status == models.PlanStatusActive {
		plan.Status = models.PlanStatusCompleted
		columns = append(columns, "estado")
	}

	_, err = tx.
		NewUpdate().
		Model(plan).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// RegisterProgress records what actually happened on one date. Repeated
// registrations for the same date overwrite the earlier row.
func (svc *Service) RegisterProgress(ctx context.Context, plan *models.ReadingPlan, input RegisterProgressInput) (*models.ReadingProgress, error) {
	if input.DayStatus == models.DayStatusCompleted && input.DayPercent < 100 {
		return nil, errcodes.ValidationError("A day can only be COMPLETADO at one hundred percent.")
	}

	now := time.Now()
	progress := &models.ReadingProgress{
		CreatedAt:       now,
		UpdatedAt:       now,
		PlanID:          plan.ID,
		Date:            models.DateOnly(input.Date),
		PagesRead:       input.PagesRead,
		MinutesInvested: input.MinutesInvested,
		DayStatus:       input.DayStatus,
		DayPercent:      input.DayPercent,
		Notes:           input.Notes,
	}

	_, err := svc.db.
		NewInsert().
		Model(progress).
		On("CONFLICT (plan_id, fecha) DO UPDATE").
		Set("paginas_leidas = EXCLUDED.paginas_leidas").
		Set("tiempo_invertido_min = EXCLUDED.tiempo_invertido_min").
		Set("estado_dia = EXCLUDED.estado_dia").
		Set("porcentaje_dia = EXCLUDED.porcentaje_dia").
		Set("notas_dia = EXCLUDED.notas_dia").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return progress, nil
}

// ListProgress returns the plan's registered progress rows ordered by date.
func (svc *Service) ListProgress(ctx context.Context, planID int) ([]*models.ReadingProgress, error) {
	history := []*models.ReadingProgress{}

	err := svc.db.
		NewSelect().
		Model(&history).
		Where("pr.plan_id = ?", planID).
		Order("pr.fecha ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return history, nil
}

// ListDetails returns the plan's schedule in reading order, optionally
// filtered by read state.
func (svc *Service) ListDetails(ctx context.Context, planID int, opts ListDetailsOptions) ([]*models.PlanDetail, error) {
	details := []*models.PlanDetail{}

	q := svc.db.
		NewSelect().
		Model(&details).
		Relation("Chapter").
		Where("d.plan_id = ?", planID).
		Order("d.dia ASC", "d.pagina_inicio ASC")

	if opts.Read != nil {
		q = q.Where("d.leido = ?", *opts.Read)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return details, nil
}

// FlagOverdueDetails marks unread detail rows assigned before today as late
// across every active plan, or just the given one, and refreshes each plan's
// days-behind counter. Returns the number of plans swept and of rows flagged.
func (svc *Service) FlagOverdueDetails(ctx context.Context, planID *int, today time.Time) (int, int, error) {
	planIDs := []int{}
	q := svc.db.
		NewSelect().
		Model((*models.ReadingPlan)(nil)).
		Column("p.id").
		Where("p.estado = ?", models.PlanStatusActive)
	if planID != nil {
		q = q.Where("p.id = ?", *planID)
	}
	if err := q.Scan(ctx, &planIDs); err != nil {
		return 0, 0, errors.WithStack(err)
	}

	flagged := 0
	for _, id := range planIDs {
		n, err := svc.flagOverdueForPlan(ctx, id, today)
		if err != nil {
			return 0, 0, err
		}
		flagged += n
	}

	return len(planIDs), flagged, nil
}

func (svc *Service) flagOverdueForPlan(ctx context.Context, planID int, today time.Time) (int, error) {
	res, err := svc.db.
		NewUpdate().
		Model((*models.PlanDetail)(nil)).
		Set("es_atrasado = ?", true).
		Set("updated_at = ?", time.Now()).
		Where("plan_id = ?", planID).
		Where("leido = ?", false).
		Where("es_atrasado = ?", false).
		Where("fecha_asignada < ?", today).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	flagged, err := res.RowsAffected()
	if err != nil {
		return 0, errors.WithStack(err)
	}

	// Days behind is the number of distinct dates with unread overdue spans,
	// not the number of spans.
	var daysBehind int
	err = svc.db.
		NewSelect().
		Model((*models.PlanDetail)(nil)).
		ColumnExpr("COUNT(DISTINCT d.fecha_asignada)").
		Where("d.plan_id = ?", planID).
		Where("d.leido = ?", false).
		Where("d.fecha_asignada < ?", today).
		Scan(ctx, &daysBehind)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	_, err = svc.db.
		NewUpdate().
		Model((*models.ReadingPlan)(nil)).
		Set("dias_atraso = ?", daysBehind).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", planID).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return int(flagged), nil
}

func chapterIndexByID(chapters []*models.Chapter, id int) int {
	for i, chapter := range chapters {
		if chapter.ID == id {
			return i
		}
	}
	return len(chapters)
}

// remainingPages counts the pages from the cursor position to the end of the
// book. A cursor past its chapter's last page contributes nothing for that
// chapter.
func remainingPages(chapters []*models.Chapter, chapterIndex, page int) int {
	total := 0
	for i := chapterIndex; i < len(chapters); i++ {
		pages := chapters[i].Pages()
		if i == chapterIndex {
			pages -= page - 1
			if pages < 0 {
				pages = 0
			}
		}
		total += pages
	}
	return total
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
