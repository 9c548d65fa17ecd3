package router

import (
	"hangout-api/core/middleware"
	"hangout-api/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

type AvailabilityRouter struct {
	AvailabilityController *controller.AvailabilityController
}

func NewAvailabilityRouter(availabilityController *controller.AvailabilityController) *AvailabilityRouter {
	return &AvailabilityRouter{
		AvailabilityController: availabilityController,
	}
}

func (r *AvailabilityRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	privateRoutes := e.Group("/api/v1/private")

	routes := privateRoutes.Group("/availability", mw.AuthMiddleware())
	routes.POST("", r.AvailabilityController.FindAvailability)
}
