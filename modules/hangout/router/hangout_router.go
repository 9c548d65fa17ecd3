package router

import (
	"hangout-api/core/middleware"
	"hangout-api/modules/hangout/controller"

	"github.com/labstack/echo/v4"
)

type HangoutRouter struct {
	controller *controller.HangoutController
}

func NewHangoutRouter(controller *controller.HangoutController) *HangoutRouter {
	return &HangoutRouter{
		controller: controller,
	}
}

func (r *HangoutRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	hangoutRoutes := v1.Group("/private/hangouts")
	hangoutRoutes.Use(mw.AuthMiddleware())

	hangoutRoutes.POST("", r.controller.CreateHangout)
	hangoutRoutes.GET("", r.controller.ListHangouts)
	hangoutRoutes.GET("/:id", r.controller.GetHangout)
	hangoutRoutes.DELETE("/:id", r.controller.DeleteHangout)

	// Lifecycle transitions
	hangoutRoutes.POST("/:id/respond", r.controller.RespondHangout)
	hangoutRoutes.POST("/:id/cancel", r.controller.CancelHangout)
	hangoutRoutes.POST("/:id/complete", r.controller.CompleteHangout)
}
