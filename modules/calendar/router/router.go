package router

import (
	"hangout-api/core/middleware"
	"hangout-api/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{
		controller: controller,
	}
}

func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	// Private routes (require authentication)
	calendarRoutes := v1.Group("/private/calendar")
	calendarRoutes.Use(mw.AuthMiddleware())

	// Calendar connections
	calendarRoutes.GET("/connections", r.controller.GetConnections)
	calendarRoutes.PUT("/connections", r.controller.SaveConnection)
	calendarRoutes.DELETE("/connections/:provider", r.controller.DisconnectCalendar)

	calendarRoutes.GET("/busy", r.controller.GetBusy)

	// Server-side Google consent flow
	calendarRoutes.GET("/google/auth-url", r.controller.GetGoogleAuthURL)
	v1.GET("/calendar/google/callback", r.controller.GoogleCallback)
}
