package notification

import (
	"hangout-api/core/middleware"
	"hangout-api/modules/notification/controller"
	"hangout-api/modules/notification/repository"
	"hangout-api/modules/notification/router"
	"hangout-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, repo repository.NotificationRepository, mw *middleware.Middleware) *service.NotificationService {
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Setup(e, mw)

	return svc
}
