package availability

import (
	"hangout-api/core/middleware"
	"hangout-api/modules/availability/controller"
	"hangout-api/modules/availability/router"
	"hangout-api/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// Init wires the availability engine onto the given busy provider and registers its routes.
func Init(e *echo.Echo, provider service.BusyProvider, finder *service.SlotFinder, mw *middleware.Middleware) *service.AvailabilityService {
	svc := service.NewAvailabilityService(provider, finder)
	ctrl := controller.NewAvailabilityController(svc)
	rtr := router.NewAvailabilityRouter(ctrl)

	rtr.Setup(e, mw)

	return svc
}
