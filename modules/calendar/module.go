package calendar

import (
	"hangout-api/core/middleware"
	"hangout-api/modules/calendar/controller"
	"hangout-api/modules/calendar/repository"
	"hangout-api/modules/calendar/router"
	"hangout-api/modules/calendar/service"

	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"
)

// Deps are built by the caller so the same provider instance can serve
// availability and the hangout lifecycle.
type Deps struct {
	Repo        repository.CalendarRepository
	Provider    service.CalendarAccessProvider
	OAuthConfig *oauth2.Config
	States      repository.OAuthStateStore
}

func Init(e *echo.Echo, deps Deps, mw *middleware.Middleware) *service.CalendarService {
	svc := service.NewCalendarService(deps.Repo, deps.Provider)
	flow := service.NewOAuthFlow(deps.OAuthConfig, deps.States, svc)
	ctrl := controller.NewCalendarController(svc, flow)
	router.NewCalendarRouter(ctrl).Setup(e, mw)

	return svc
}
