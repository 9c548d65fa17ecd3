package router

import (
	"hangout-api/core/middleware"
	"hangout-api/modules/persona/controller"

	"github.com/labstack/echo/v4"
)

type PersonaRouter struct {
	controller *controller.PersonaController
}

func NewPersonaRouter(controller *controller.PersonaController) *PersonaRouter {
	return &PersonaRouter{
		controller: controller,
	}
}

func (r *PersonaRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	personaRoutes := e.Group("/api/v1/private/personas")
	personaRoutes.Use(mw.AuthMiddleware())

	personaRoutes.GET("", r.controller.ListPersonas)
	personaRoutes.POST("", r.controller.CreatePersona)
	personaRoutes.GET("/:userId", r.controller.ListUserPersonas)
}
