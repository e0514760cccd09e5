package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/daywise/core/internal/domain/entities"
	"github.com/daywise/core/internal/infrastructure/logger"
	"github.com/daywise/core/internal/ports"
)

// ScheduleHandler handles schedule generation and editing requests
type ScheduleHandler struct {
	scheduleService ports.ScheduleService
	logger          *logger.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(scheduleService ports.ScheduleService, logger *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		logger:          logger,
	}
}

// Generate godoc
// @Summary Generate a schedule
// @Description Generate an optimal day schedule from the owner's current tasks
// @Tags schedule
// @Produce json
// @Success 200 {object} entities.Schedule
// @Failure 409 {object} ports.ErrorResponse
// @Failure 422 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /schedule/generate [post]
func (h *ScheduleHandler) Generate(c echo.Context) error {
	identity := identityFromContext(c)
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not signed in")
	}

	schedule, err := h.scheduleService.Generate(c.Request().Context(), identity.Owner)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrEmptyTaskList):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "No tasks to schedule")
		case errors.Is(err, entities.ErrGenerationInProgress):
			return echo.NewHTTPError(http.StatusConflict, "A schedule generation is already running")
		}
		h.logger.Errorw("Generate schedule failed", "error", err, "owner", identity.Owner.String())
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate schedule")
	}

	return c.JSON(http.StatusOK, schedule)
}

// Current godoc
// @Summary Get the current schedule
// @Tags schedule
// @Produce json
// @Success 200 {object} entities.Schedule
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /schedule [get]
func (h *ScheduleHandler) Current(c echo.Context) error {
	identity := identityFromContext(c)
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not signed in")
	}

	schedule, err := h.scheduleService.Current(identity.Owner)
	if err != nil {
		if errors.Is(err, entities.ErrNoCurrentSchedule) {
			return echo.NewHTTPError(http.StatusNotFound, "No current schedule")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load schedule")
	}

	return c.JSON(http.StatusOK, schedule)
}

// EditItem godoc
// @Summary Edit a schedule item's times
// @Tags schedule
// @Accept json
// @Produce json
// @Param id path string true "Schedule item ID"
// @Param request body ports.EditScheduleItemRequest true "New times"
// @Success 200 {object} entities.Schedule
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /schedule/items/{id} [put]
func (h *ScheduleHandler) EditItem(c echo.Context) error {
	identity := identityFromContext(c)
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not signed in")
	}

	itemID := c.Param("id")

	var req ports.EditScheduleItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	schedule, err := h.scheduleService.EditItem(identity.Owner, itemID, req.StartTime, req.EndTime)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrNoCurrentSchedule):
			return echo.NewHTTPError(http.StatusNotFound, "No current schedule")
		case errors.Is(err, entities.ErrScheduleItemNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Schedule item not found")
		case errors.Is(err, entities.ErrInvalidClockTime), errors.Is(err, entities.ErrInvalidTimeRange):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Errorw("Edit schedule item failed", "error", err, "owner", identity.Owner.String(), "item_id", itemID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to edit schedule item")
	}

	return c.JSON(http.StatusOK, schedule)
}
