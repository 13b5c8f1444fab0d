package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"repairright/config"
	eventsRepo "repairright/database/repository/events"
	"repairright/models"
	"repairright/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt is the asynq connection shared by the publisher and the worker.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// BookingEventWorker consumes booking lifecycle events and appends them to the audit
// trail.
type BookingEventWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewBookingEventWorker(redisOpt asynq.RedisConnOpt, events eventsRepo.EventRepository, logger *zap.Logger) *BookingEventWorker {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.QueueBookingEvents: 1,
			},
			ErrorHandler: LogTaskError(logger),
		},
	)

	mux := asynq.NewServeMux()
	handler := HandleBookingEvent(events, logger)
	mux.HandleFunc(models.EventBookingCreated, handler)
	mux.HandleFunc(models.EventStatusChanged, handler)

	return &BookingEventWorker{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker in the background, retrying startup with a linear backoff.
func (w *BookingEventWorker) Start() {
	go func() {
		w.logger.Info("starting booking event worker", zap.String("queue", tasks.QueueBookingEvents))
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("booking event worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				w.logger.Error("booking event worker gave up; events stay queued until restart")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

// Shutdown waits for in-flight tasks and stops the worker.
func (w *BookingEventWorker) Shutdown() {
	w.srv.Shutdown()
}

// HandleBookingEvent stores the event carried by a task. Malformed payloads are not
// retried.
func HandleBookingEvent(events eventsRepo.EventRepository, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		e, err := tasks.ParseBookingEvent(task)
		if err != nil {
			logger.Error("dropping malformed booking event", zap.String("type", task.Type()), zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		if e.ID == "" || e.BookingID == "" {
			logger.Error("dropping booking event without ids", zap.String("type", task.Type()))
			return fmt.Errorf("%w: missing event or booking id", asynq.SkipRetry)
		}
		if e.Type == "" {
			e.Type = task.Type()
		}

		if err := events.Insert(ctx, e); err != nil {
			logger.Warn("failed to store booking event",
				zap.String("eventID", e.ID),
				zap.String("bookingID", e.BookingID),
				zap.Error(err),
			)
			return err
		}
		logger.Debug("stored booking event",
			zap.String("eventID", e.ID),
			zap.String("type", e.Type),
			zap.String("bookingID", e.BookingID),
		)
		return nil
	}
}

// LogTaskError reports failed tasks: dropped ones at error level, ones asynq will
// retry at warn level.
func LogTaskError(logger *zap.Logger) asynq.ErrorHandlerFunc {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retried, hasRetried := asynq.GetRetryCount(ctx)
		maxRetry, hasMax := asynq.GetMaxRetry(ctx)
		exhausted := hasRetried && hasMax && retried >= maxRetry
		fields := []zap.Field{
			zap.String("type", task.Type()),
			zap.Int("retried", retried),
			zap.Int("maxRetry", maxRetry),
			zap.Error(err),
		}
		if isPermanent(err) || exhausted {
			logger.Error("booking event dropped", fields...)
			return
		}
		logger.Warn("booking event failed, will retry", fields...)
	}
}

func isPermanent(err error) bool {
	return errors.Is(err, asynq.SkipRetry)
}
