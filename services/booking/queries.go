package booking

import (
	"context"
	"errors"

	"repairright/database/repository"
	"repairright/models"
	"repairright/services/domainerr"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetBooking returns a booking to its consumer or its provider.
func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string, caller models.Identity) (*models.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, domainerr.NotFound("Booking")
	}
	b, err := s.Repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domainerr.NotFound("Booking")
		}
		return nil, err
	}
	if b.UserEmail != caller.Email && b.ProviderEmail != caller.Email {
		return nil, domainerr.ErrForbidden
	}
	return b, nil
}

// ListBookingEvents returns a booking's recorded history, oldest first, to whoever may
// see the booking. Events are recorded asynchronously, so the newest may be missing.
func (s *DefaultBookingService) ListBookingEvents(ctx context.Context, bookingID string, caller models.Identity) ([]models.BookingEvent, error) {
	b, err := s.GetBooking(ctx, bookingID, caller)
	if err != nil {
		return nil, err
	}
	if s.History == nil {
		return []models.BookingEvent{}, nil
	}
	return s.History.ListByBooking(ctx, b.ID.Hex())
}

// ListUserBookings returns the bookings the caller made.
func (s *DefaultBookingService) ListUserBookings(ctx context.Context, caller models.Identity) ([]models.Booking, error) {
	return s.Repo.ListByUser(ctx, caller.Email)
}

// ListProviderBookings returns the bookings the caller received as a provider.
func (s *DefaultBookingService) ListProviderBookings(ctx context.Context, caller models.Identity) ([]models.Booking, error) {
	return s.Repo.ListByProvider(ctx, caller.Email)
}
