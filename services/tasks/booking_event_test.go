package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"repairright/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	info, _ := args.Get(0).(*asynq.TaskInfo)
	return info, args.Error(1)
}

func sampleEvent() models.BookingEvent {
	return models.BookingEvent{
		ID:         "evt-1",
		BookingID:  "b-1",
		Type:       models.EventStatusChanged,
		Actor:      "alice@example.com",
		FromStatus: models.StatusPending,
		ToStatus:   models.StatusWorking,
		At:         time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestBookingEventTaskPayload(t *testing.T) {
	e := sampleEvent()
	task, opts, err := NewBookingEventTask(e)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusChanged, task.Type())
	assert.Len(t, opts, 4)

	got, err := ParseBookingEvent(task)
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestParseBookingEventRejectsGarbage(t *testing.T) {
	_, err := ParseBookingEvent(asynq.NewTask(models.EventBookingCreated, []byte("{")))
	assert.Error(t, err)
}

func TestAsynqPublisher(t *testing.T) {
	enq := new(mockEnqueuer)
	enq.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
		return task.Type() == models.EventStatusChanged
	}), mock.Anything).Return(&asynq.TaskInfo{ID: "evt-1"}, nil).Once()
	enq.On("EnqueueContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("redis down")).Once()

	p := &AsynqPublisher{Client: enq}
	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	assert.Error(t, p.Publish(context.Background(), sampleEvent()))
	enq.AssertExpectations(t)
}
