package persona

import (
	"hangout-api/core/middleware"
	"hangout-api/modules/persona/controller"
	"hangout-api/modules/persona/repository"
	"hangout-api/modules/persona/router"
	"hangout-api/modules/persona/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, repo repository.PersonaRepository, mw *middleware.Middleware) *service.PersonaService {
	svc := service.NewPersonaService(repo)
	ctrl := controller.NewPersonaController(svc)
	router.NewPersonaRouter(ctrl).Setup(e, mw)

	return svc
}
