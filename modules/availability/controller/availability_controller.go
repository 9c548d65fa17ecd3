package controller

import (
	"time"

	"hangout-api/core/controller"
	"hangout-api/core/errors"
	"hangout-api/core/middleware"
	"hangout-api/modules/availability/dto"
	"hangout-api/modules/availability/service"

	"github.com/labstack/echo/v4"
)

type AvailabilityController struct {
	controller.BaseController
	AvailabilityService service.AvailabilityServiceInterface
	now                 func() time.Time
}

func NewAvailabilityController(svc service.AvailabilityServiceInterface) *AvailabilityController {
	return &AvailabilityController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
		now:                 time.Now,
	}
}

// FindAvailability handles POST /availability
// @Summary Find mutual free windows with another user
// @Tags Availability
// @Security BearerAuth
// @Param request body dto.FindAvailabilityRequest true "Search parameters"
// @Success 200 {object} dto.FindAvailabilityResponse
// @Router /private/availability [post]
func (c *AvailabilityController) FindAvailability(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	var req dto.FindAvailabilityRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	rangeStart, rangeEnd := c.AvailabilityService.DefaultRange(c.now())
	if req.RangeStart != nil {
		rangeStart = *req.RangeStart
	}
	if req.RangeEnd != nil {
		rangeEnd = *req.RangeEnd
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute
	result, err := c.AvailabilityService.FindAvailability(ctx.Request().Context(), userID, req.UserID, rangeStart, rangeEnd, duration)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, dto.ToFindAvailabilityResponse(result, rangeStart, rangeEnd), "Availability found")
}
