package hangout

import (
	"hangout-api/core/middleware"
	"hangout-api/modules/hangout/controller"
	"hangout-api/modules/hangout/repository"
	"hangout-api/modules/hangout/router"
	"hangout-api/modules/hangout/service"

	"github.com/labstack/echo/v4"
)

// Deps are the collaborators the lifecycle calls out to.
type Deps struct {
	Repo         repository.HangoutRepository
	Calendar     service.CalendarWriter
	Availability service.AvailabilityChecker
	Personas     service.PersonaResolver
	Notifier     service.Notifier
}

func Init(e *echo.Echo, deps Deps, mw *middleware.Middleware, opts ...service.Option) *service.HangoutService {
	svc := service.NewHangoutService(deps.Repo, deps.Calendar, deps.Availability, deps.Personas, deps.Notifier, opts...)
	ctrl := controller.NewHangoutController(svc)
	router.NewHangoutRouter(ctrl).Setup(e, mw)

	return svc
}
