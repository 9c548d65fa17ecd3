package controller

import (
	"hangout-api/core/controller"
	"hangout-api/core/errors"
	"hangout-api/core/middleware"
	"hangout-api/modules/persona/dto"
	"hangout-api/modules/persona/service"

	"github.com/labstack/echo/v4"
)

type PersonaController struct {
	controller.BaseController
	service service.PersonaServiceInterface
}

func NewPersonaController(svc service.PersonaServiceInterface) *PersonaController {
	return &PersonaController{
		BaseController: controller.NewBaseController(),
		service:        svc,
	}
}

func (c *PersonaController) ListPersonas(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	personas, err := c.service.ListPersonas(ctx.Request().Context(), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, dto.PersonaListResponse{Personas: personas}, "Personas")
}

// ListUserPersonas returns another user's personas so a hangout can be
// addressed to one of them.
func (c *PersonaController) ListUserPersonas(ctx echo.Context) error {
	if _, err := middleware.GetUserID(ctx); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	targetUserID := ctx.Param("userId")
	if targetUserID == "" {
		return c.BadRequest(errors.ErrInvalidInput, "userId is required")
	}

	personas, err := c.service.ListPersonas(ctx.Request().Context(), targetUserID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, dto.PersonaListResponse{Personas: personas}, "Personas")
}

func (c *PersonaController) CreatePersona(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	var req dto.CreatePersonaRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	persona, err := c.service.CreatePersona(ctx.Request().Context(), userID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.CreatedResponse(ctx, persona, "Persona created")
}
