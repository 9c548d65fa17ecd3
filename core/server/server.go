package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"hangout-api/core/cache"
	"hangout-api/core/config"
	"hangout-api/core/constants"
	"hangout-api/core/logger"
	"hangout-api/core/middleware"
	"hangout-api/modules/availability"
	availabilityService "hangout-api/modules/availability/service"
	"hangout-api/modules/calendar"
	calendarRepo "hangout-api/modules/calendar/repository"
	calendarService "hangout-api/modules/calendar/service"
	"hangout-api/modules/hangout"
	hangoutService "hangout-api/modules/hangout/service"
	"hangout-api/modules/notification"
	notificationService "hangout-api/modules/notification/service"
	"hangout-api/modules/persona"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// App is the wired HTTP application.
type App struct {
	Echo   *echo.Echo
	Config *config.Config

	stores  *Stores
	redis   *redis.Client
	asynq   *asynq.Client
	closers []func() error
}

// Build connects storage and redis and registers every module on a new echo
// instance. Without redis, locks are in-process and notifications are written
// synchronously.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, stores: stores}
	app.closers = append(app.closers, stores.Close)

	finder, err := availabilityService.NewSlotFinderFromConfig(cfg.Scheduling)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("invalid scheduling config: %w", err)
	}

	e := newEcho()
	e.GET("/health", app.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	mw := middleware.NewMiddleware(cfg.JWT.Secret)

	notificationSvc := notification.Init(e, stores.Notifications, mw)

	var (
		locker     cache.Locker                   = cache.NewKeyedMutex()
		dispatcher notificationService.Dispatcher = notificationService.NewSyncDispatcher(notificationSvc)
		states     calendarRepo.OAuthStateStore   = calendarRepo.NewMemoryOAuthStateStore()
	)
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.redis = client
		app.closers = append(app.closers, client.Close)

		locker = cache.NewRedisLocker(client, constants.RequestLockTTL, constants.RequestLockRetry)
		states = calendarRepo.NewRedisOAuthStateStore(client)

		app.asynq = asynq.NewClient(RedisConnOpt(cfg.Redis))
		app.closers = append(app.closers, app.asynq.Close)
		dispatcher = notificationService.NewAsynqDispatcher(app.asynq)
		logger.Info("Server:Build:Redis", "locks", "redis", "notifications", "asynq")
	}

	provider := calendarService.NewGoogleProvider(stores.Calendar, cfg.GoogleAPI)
	calendar.Init(e, calendar.Deps{
		Repo:        stores.Calendar,
		Provider:    provider,
		OAuthConfig: provider.OAuthConfig(),
		States:      states,
	}, mw)
	availabilitySvc := availability.Init(e, provider, finder, mw)
	personaSvc := persona.Init(e, stores.Personas, mw)
	hangout.Init(e, hangout.Deps{
		Repo:         stores.Hangouts,
		Calendar:     provider,
		Availability: availabilitySvc,
		Personas:     personaSvc,
		Notifier:     dispatcher,
	}, mw, hangoutService.WithLocker(locker))

	app.Echo = e
	return app, nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("HTTP:Request",
				"method", v.Method, "uri", v.URI, "status", v.Status,
				"latency", v.Latency.String(), "request_id", v.RequestID)
			return nil
		},
	}))
	return e
}

// RedisConnOpt converts the redis settings for asynq.
func RedisConnOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func (a *App) health(c echo.Context) error {
	status := map[string]string{"status": "ok", "storage": a.Config.Storage.Driver}
	if a.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := a.redis.Ping(ctx).Err(); err != nil {
			status["status"] = "degraded"
			status["redis"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, status)
		}
		status["redis"] = "ok"
	}
	return c.JSON(http.StatusOK, status)
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.Config) error {
	app, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Server:Run:Close:Error", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server:Run:Listening", "addr", addr, "env", cfg.App.Env)
		if err := app.Echo.Start(addr); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Server:Run:ShuttingDown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	return app.Echo.Shutdown(shutdownCtx)
}
