package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"repairright/models"

	"github.com/hibiken/asynq"
)

// QueueBookingEvents is the asynq queue booking events are published to.
const QueueBookingEvents = "booking-events"

// NewBookingEventTask builds the task carrying e. The task id is the event id so a
// duplicate enqueue is rejected by asynq.
func NewBookingEventTask(e models.BookingEvent) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(e.Type, b)
	opts := []asynq.Option{
		asynq.TaskID(e.ID),
		asynq.Queue(QueueBookingEvents),
		asynq.MaxRetry(5),
		asynq.Retention(24 * time.Hour),
	}
	return task, opts, nil
}

// ParseBookingEvent decodes a task payload.
func ParseBookingEvent(task *asynq.Task) (models.BookingEvent, error) {
	var e models.BookingEvent
	if err := json.Unmarshal(task.Payload(), &e); err != nil {
		return models.BookingEvent{}, fmt.Errorf("invalid booking event payload: %w", err)
	}
	return e, nil
}

// EventPublisher publishes booking lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, e models.BookingEvent) error
}

// Enqueuer is the part of *asynq.Client the publisher uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqPublisher publishes events as asynq tasks.
type AsynqPublisher struct {
	Client Enqueuer
}

func (p *AsynqPublisher) Publish(ctx context.Context, e models.BookingEvent) error {
	task, opts, err := NewBookingEventTask(e)
	if err != nil {
		return err
	}
	if _, err := p.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue %s for booking %s: %w", e.Type, e.BookingID, err)
	}
	return nil
}

// NopPublisher drops events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.BookingEvent) error { return nil }
