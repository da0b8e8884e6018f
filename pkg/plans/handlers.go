package plans

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lectioapp/lectio/pkg/errcodes"
	"github.com/lectioapp/lectio/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	planService *Service
}

// retrieveOwnPlan loads the plan from the :id route parameter and enforces
// that it belongs to the authenticated user.
func (h *handler) retrieveOwnPlan(c echo.Context, opts RetrievePlanOptions) (*models.ReadingPlan, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, errcodes.NotFound("Reading plan")
	}

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return nil, errcodes.Unauthorized("Authentication required")
	}

	opts.ID = &id
	opts.UserID = &user.ID

	return h.planService.RetrievePlan(c.Request().Context(), opts)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	payload := createPlanPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	startDate, err := time.Parse("2006-01-02", payload.StartDate)
	if err != nil {
		return errcodes.ValidationError(`"fecha_inicio" is invalid`)
	}

	var targetEndDate *time.Time
	if payload.TargetEndDate != nil {
		target, err := time.Parse("2006-01-02", *payload.TargetEndDate)
		if err != nil {
			return errcodes.ValidationError(`"fecha_limite" is invalid`)
		}
		targetEndDate = &target
	}

	plan, warnings, err := h.planService.CreatePlan(ctx, CreatePlanInput{
		UserID:          user.ID,
		BookID:          payload.BookID,
		Title:           payload.Title,
		Description:     payload.Description,
		ReadingLevel:    models.ReadingLevelFromName[payload.ReadingLevel],
		DailyMinutes:    payload.DailyMinutes,
		PreferredTime:   payload.PreferredTime,
		IncludeWeekends: payload.IncludeWeekends,
		StartDate:       startDate,
		TargetEndDate:   targetEndDate,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, map[string]interface{}{
		"plan":   plan,
		"avisos": warnings,
	}))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := listPlansQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	plans, total, err := h.planService.ListPlansWithTotal(ctx, ListPlansOptions{
		Limit:  params.Limit,
		Offset: params.Offset,
		UserID: &user.ID,
		BookID: params.BookID,
		Status: params.Status,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"plans": plans,
		"total": total,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	plan, err := h.retrieveOwnPlan(c, RetrievePlanOptions{
		IncludeDetails: true,
		IncludeBook:    true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, plan))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	payload := updatePlanPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	plan, err := h.retrieveOwnPlan(c, RetrievePlanOptions{})
	if err != nil {
		return errors.WithStack(err)
	}

	var level *int
	if payload.ReadingLevel != nil {
		l := models.ReadingLevelFromName[*payload.ReadingLevel]
		level = &l
	}

	warnings, err := h.planService.UpdatePlan(ctx, plan, UpdatePlanOptions{
		Title:           payload.Title,
		Description:     payload.Description,
		PreferredTime:   payload.PreferredTime,
		ReadingLevel:    level,
		DailyMinutes:    payload.DailyMinutes,
		IncludeWeekends: payload.IncludeWeekends,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"plan":   plan,
		"avisos": warnings,
	}))
}

func (h *handler) updateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	payload := updateStatusPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	plan, err := h.retrieveOwnPlan(c, RetrievePlanOptions{})
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.planService.UpdateStatus(ctx, plan, payload.Status); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, plan))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	plan, err := h.retrieveOwnPlan(c, RetrievePlanOptions{})
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.planService.DeletePlan(ctx, plan); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) details(c echo.Context) error {
	ctx := c.Request().Context()

	params := listDetailsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	plan, err := h.retrieveOwnPlan(c, RetrievePlanOptions{})
	if err != nil {
		return errors.WithStack(err)
	}

	details, err := h.planService.ListDetails(ctx, plan.ID, ListDetailsOptions{
		Read: params.Read,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"details": details,
	}))
}

func (h *handler) completeDetail(c echo.Context) error {
	ctx := c.Request().Context()

	detailID, err := strconv.Atoi(c.Param("detailId"))
	if err != nil {
		return errcodes.NotFound("Plan detail")
	}

	payload := completeDetailPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	plan, err := h.retrieveOwnPlan(c, RetrievePlanOptions{})
	if err != nil {
		return errors.WithStack(err)
	}

	detail, err := h.planService.CompleteDetail(ctx, plan, detailID, CompleteDetailInput{
		ActualMinutes:       payload.ActualMinutes,
		PerceivedDifficulty: payload.PerceivedDifficulty,
		Notes:               payload.Notes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"detail": detail,
		"plan":   plan,
	}))
}

func (h *handler) registerProgress(c echo.Context) error {
	ctx := c.Request().Context()

	payload := registerProgressPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	date, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		return errcodes.ValidationError(`"fecha" is invalid`)
	}

	plan, err := h.retrieveOwnPlan(c, RetrievePlanOptions{})
	if err != nil {
		return errors.WithStack(err)
	}

	progress, err := h.planService.RegisterProgress(ctx, plan, RegisterProgressInput{
		Date:            date,
		PagesRead:       payload.PagesRead,
		MinutesInvested: payload.MinutesInvested,
		DayStatus:       payload.DayStatus,
		DayPercent:      payload.DayPercent,
		Notes:           payload.Notes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, progress))
}

func (h *handler) progressHistory(c echo.Context) error {
	ctx := c.Request().Context()

	plan, err := h.retrieveOwnPlan(c, RetrievePlanOptions{})
	if err != nil {
		return errors.WithStack(err)
	}

	history, err := h.planService.ListProgress(ctx, plan.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"progress": history,
	}))
}
