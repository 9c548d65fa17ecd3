package controller

import (
	"time"

	"hangout-api/core/controller"
	"hangout-api/core/errors"
	"hangout-api/core/middleware"
	"hangout-api/modules/calendar/dto"
	"hangout-api/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	controller.BaseController
	service service.CalendarServiceInterface
	oauth   service.OAuthFlowInterface
}

func NewCalendarController(svc service.CalendarServiceInterface, oauth service.OAuthFlowInterface) *CalendarController {
	return &CalendarController{
		BaseController: controller.NewBaseController(),
		service:        svc,
		oauth:          oauth,
	}
}

// GetConnections handles GET /calendar/connections
func (c *CalendarController) GetConnections(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	connections, err := c.service.GetConnections(ctx.Request().Context(), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, dto.CalendarConnectionListResponse{Connections: connections}, "Calendar connections")
}

// SaveConnection handles PUT /calendar/connections
func (c *CalendarController) SaveConnection(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	var req dto.SaveConnectionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	conn, err := c.service.SaveGoogleConnection(ctx.Request().Context(), userID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, conn, "Calendar connected")
}

// DisconnectCalendar handles DELETE /calendar/connections/:provider
func (c *CalendarController) DisconnectCalendar(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	if err := c.service.DisconnectCalendar(ctx.Request().Context(), userID, ctx.Param("provider")); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, nil, "Calendar disconnected")
}

// GetBusy handles GET /calendar/busy?start=...&end=... (RFC3339)
func (c *CalendarController) GetBusy(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	start, err := time.Parse(time.RFC3339, ctx.QueryParam("start"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "start must be RFC3339")
	}
	end, err := time.Parse(time.RFC3339, ctx.QueryParam("end"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "end must be RFC3339")
	}

	busy, err := c.service.GetBusy(ctx.Request().Context(), userID, start, end)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, busy, "Busy intervals")
}

// GetGoogleAuthURL handles GET /calendar/google/auth-url
func (c *CalendarController) GetGoogleAuthURL(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	authURL, err := c.oauth.AuthURL(ctx.Request().Context(), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, dto.AuthURLResponse{URL: authURL}, "Google authorization URL")
}

// GoogleCallback handles GET /calendar/google/callback, the consent redirect target.
func (c *CalendarController) GoogleCallback(ctx echo.Context) error {
	if reason := ctx.QueryParam("error"); reason != "" {
		return c.BadRequest(errors.ErrInvalidInput, "Google authorization was denied: "+reason)
	}

	conn, err := c.oauth.HandleCallback(ctx.Request().Context(), ctx.QueryParam("state"), ctx.QueryParam("code"))
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, conn, "Calendar connected")
}
