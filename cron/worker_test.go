package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"repairright/database/repository/memory"
	"repairright/models"
	"repairright/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingEventRepo struct{}

func (failingEventRepo) Insert(context.Context, models.BookingEvent) error {
	return errors.New("mongo unavailable")
}

func (failingEventRepo) ListByBooking(context.Context, string) ([]models.BookingEvent, error) {
	return nil, nil
}

func TestHandleBookingEventStoresEvent(t *testing.T) {
	repo := memory.NewEventRepo()
	handler := HandleBookingEvent(repo, zap.NewNop())

	e := models.BookingEvent{
		ID:         "evt-1",
		BookingID:  "b-1",
		Type:       models.EventStatusChanged,
		Actor:      "alice@example.com",
		FromStatus: models.StatusPending,
		ToStatus:   models.StatusWorking,
		At:         time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
	}
	task, _, err := tasks.NewBookingEventTask(e)
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), task))
	// Redelivery is absorbed by the event id.
	require.NoError(t, handler(context.Background(), task))

	stored, err := repo.ListByBooking(context.Background(), "b-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, e, stored[0])
}

func TestHandleBookingEventSkipsMalformedPayload(t *testing.T) {
	handler := HandleBookingEvent(memory.NewEventRepo(), zap.NewNop())

	err := handler(context.Background(), asynq.NewTask(models.EventBookingCreated, []byte("{not json")))
	assert.True(t, isPermanent(err), "got %v", err)

	payload, _ := json.Marshal(models.BookingEvent{Type: models.EventBookingCreated})
	err = handler(context.Background(), asynq.NewTask(models.EventBookingCreated, payload))
	assert.True(t, isPermanent(err), "got %v", err)
}

func TestHandleBookingEventRetriesStoreFailures(t *testing.T) {
	handler := HandleBookingEvent(failingEventRepo{}, zap.NewNop())
	task, _, err := tasks.NewBookingEventTask(models.BookingEvent{ID: "evt-2", BookingID: "b-2", Type: models.EventBookingCreated})
	require.NoError(t, err)

	err = handler(context.Background(), task)
	require.Error(t, err)
	assert.False(t, isPermanent(err))
}

func TestLogTaskErrorSeparatesDroppedFromRetried(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logErr := LogTaskError(zap.New(core))
	task := asynq.NewTask(models.EventBookingCreated, nil)

	logErr(context.Background(), task, fmt.Errorf("%w: bad payload", asynq.SkipRetry))
	logErr(context.Background(), task, errors.New("mongo unavailable"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "booking event dropped", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
