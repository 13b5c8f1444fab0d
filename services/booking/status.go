package booking

import (
	"context"
	"errors"
	"fmt"

	"repairright/database/repository"
	"repairright/models"
	"repairright/services/domainerr"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UpdateBookingStatus moves a booking to status on behalf of its provider. It returns
// the booking after the write and whether the status actually changed.
//
// The write is a single filtered update; when it matches nothing the booking is
// re-read only to tell the caller why.
func (s *DefaultBookingService) UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus, caller models.Identity) (*models.Booking, bool, error) {
	if !status.IsValid() {
		return nil, false, domainerr.New(domainerr.CodeInvalidStatus,
			fmt.Sprintf("Invalid service status %q: expected pending, working or completed", status))
	}
	oid, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, false, domainerr.NotFound("Booking")
	}

	at := s.now()
	before, err := s.Repo.UpdateStatus(ctx, oid, caller.Email, status.Predecessors(), status, at)
	if err != nil {
		return nil, false, err
	}
	if before == nil {
		return nil, false, s.explainRejectedUpdate(ctx, oid, status, caller)
	}

	after := *before
	changed := before.ServiceStatus != status
	if changed {
		after.ServiceStatus = status
		after.UpdatedAt = at
		s.publish(ctx, models.BookingEvent{
			BookingID:  bookingID,
			Type:       models.EventStatusChanged,
			Actor:      caller.Email,
			ServiceID:  before.ServiceID,
			FromStatus: before.ServiceStatus,
			ToStatus:   status,
			At:         at,
		})
	}
	return &after, changed, nil
}

func (s *DefaultBookingService) explainRejectedUpdate(ctx context.Context, id primitive.ObjectID, status models.BookingStatus, caller models.Identity) error {
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domainerr.NotFound("Booking")
		}
		return err
	}
	if current.ProviderEmail != caller.Email {
		return domainerr.ErrForbidden
	}
	return domainerr.New(domainerr.CodeInvalidTransition,
		fmt.Sprintf("Cannot change service status from %s to %s", current.ServiceStatus, status))
}
