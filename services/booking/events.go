package booking

import (
	"context"

	"repairright/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// publish hands e to the event publisher. The booking write has already
// succeeded, so a failure here is only logged.
func (s *DefaultBookingService) publish(ctx context.Context, e models.BookingEvent) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := s.Events.Publish(ctx, e); err != nil {
		s.Logger.Warn("failed to publish booking event",
			zap.String("type", e.Type),
			zap.String("bookingID", e.BookingID),
			zap.Error(err),
		)
	}
}
