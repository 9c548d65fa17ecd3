package controller

import (
	"hangout-api/core/controller"
	"hangout-api/core/errors"
	"hangout-api/core/middleware"
	"hangout-api/modules/hangout/dto"
	"hangout-api/modules/hangout/entity"
	"hangout-api/modules/hangout/mapper"
	"hangout-api/modules/hangout/service"

	"github.com/labstack/echo/v4"
)

type HangoutController struct {
	controller.BaseController
	service service.HangoutServiceInterface
}

func NewHangoutController(svc service.HangoutServiceInterface) *HangoutController {
	return &HangoutController{
		BaseController: controller.NewBaseController(),
		service:        svc,
	}
}

// CreateHangout handles POST /hangouts
func (c *HangoutController) CreateHangout(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	var req dto.CreateHangoutRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	hangout, err := c.service.Create(ctx.Request().Context(), userID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.CreatedResponse(ctx, mapper.ToHangoutResponse(hangout, c.service.Now()), "Hangout requested")
}

// ListHangouts handles GET /hangouts
func (c *HangoutController) ListHangouts(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	views, err := c.service.ListForUser(ctx.Request().Context(), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, mapper.ToHangoutListResponse(views, c.service.Now()), "Hangouts")
}

// GetHangout handles GET /hangouts/:id
func (c *HangoutController) GetHangout(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	hangout, err := c.service.Get(ctx.Request().Context(), ctx.Param("id"), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, mapper.ToHangoutResponse(hangout, c.service.Now()), "Hangout")
}

// RespondHangout handles POST /hangouts/:id/respond
func (c *HangoutController) RespondHangout(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	var req dto.RespondRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	hangout, err := c.service.Respond(ctx.Request().Context(), ctx.Param("id"), userID, entity.Decision(req.Decision))
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, mapper.ToHangoutResponse(hangout, c.service.Now()), "Hangout "+string(hangout.Status))
}

// CancelHangout handles POST /hangouts/:id/cancel
func (c *HangoutController) CancelHangout(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	hangout, err := c.service.Cancel(ctx.Request().Context(), ctx.Param("id"), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, mapper.ToHangoutResponse(hangout, c.service.Now()), "Hangout cancelled")
}

// DeleteHangout handles DELETE /hangouts/:id
func (c *HangoutController) DeleteHangout(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	if err := c.service.Delete(ctx.Request().Context(), ctx.Param("id"), userID); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, nil, "Hangout deleted")
}

// CompleteHangout handles POST /hangouts/:id/complete
func (c *HangoutController) CompleteHangout(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	hangout, err := c.service.MarkCompleted(ctx.Request().Context(), ctx.Param("id"), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, mapper.ToHangoutResponse(hangout, c.service.Now()), "Hangout completed")
}
