package server

import (
	"context"
	"fmt"
	"os"

	"hangout-api/core/config"
	"hangout-api/core/constants"
	"hangout-api/core/logger"
	notificationService "hangout-api/modules/notification/service"
	"hangout-api/modules/notification/worker"

	"github.com/hibiken/asynq"
)

const workerConcurrency = 10

// RunWorker processes queued notification deliveries until ctx is cancelled.
func RunWorker(ctx context.Context, cfg *config.Config) error {
	if !cfg.Redis.Enabled() {
		return fmt.Errorf("worker requires REDIS_ADDR")
	}

	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Error("Server:RunWorker:Close:Error", "error", err)
		}
	}()

	srv := asynq.NewServer(RedisConnOpt(cfg.Redis), asynq.Config{
		Concurrency:     workerConcurrency,
		Queues:          map[string]int{constants.NotificationQueue: 1},
		Logger:          asynqLogger{},
		ShutdownTimeout: constants.ShutdownTimeout,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Warn("Worker:Task:Error", "type", task.Type(), "error", err)
		}),
	})

	mux := asynq.NewServeMux()
	worker.Register(mux, notificationService.NewNotificationService(stores.Notifications))

	if err := srv.Start(mux); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}
	logger.Info("Server:RunWorker:Started", "queue", constants.NotificationQueue, "concurrency", workerConcurrency)

	<-ctx.Done()
	logger.Info("Server:RunWorker:ShuttingDown")
	srv.Shutdown()
	return nil
}

// asynqLogger routes asynq's internal logging through the process logger.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) { logger.Debug("Asynq", "msg", fmt.Sprint(args...)) }
func (asynqLogger) Info(args ...interface{})  { logger.Info("Asynq", "msg", fmt.Sprint(args...)) }
func (asynqLogger) Warn(args ...interface{})  { logger.Warn("Asynq", "msg", fmt.Sprint(args...)) }
func (asynqLogger) Error(args ...interface{}) { logger.Error("Asynq", "msg", fmt.Sprint(args...)) }
func (asynqLogger) Fatal(args ...interface{}) {
	logger.Error("Asynq:Fatal", "msg", fmt.Sprint(args...))
	os.Exit(1)
}
