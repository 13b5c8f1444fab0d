package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"repairright/database/repository"
	"repairright/models"
	"repairright/services/domainerr"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CheckExistingBooking reports whether userEmail has booked serviceID. Callers may
// only ask about themselves.
func (s *DefaultBookingService) CheckExistingBooking(ctx context.Context, serviceID, userEmail string, caller models.Identity) (models.BookingCheck, error) {
	if models.NormalizeEmail(userEmail) != caller.Email {
		return models.BookingCheck{}, domainerr.ErrForbidden
	}
	if oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(serviceID)); err == nil {
		serviceID = oid.Hex()
	}
	existing, err := s.Repo.FindByServiceAndUser(ctx, serviceID, caller.Email)
	if err != nil {
		return models.BookingCheck{}, err
	}
	if existing == nil {
		return models.BookingCheck{HasBooked: false}, nil
	}
	view := existing.View()
	return models.BookingCheck{HasBooked: true, Booking: &view}, nil
}

// CreateBooking books a service for the caller and returns the new booking id.
//
// The snapshot fields are copied from the stored listing. Self-booking is checked
// before the duplicate lookup, so it wins regardless of prior bookings. The lookup
// gives the common case a clean error; the unique (serviceId, userEmail) index
// catches concurrent attempts that both pass it.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.BookingRequest, caller models.Identity) (string, error) {
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.Date = strings.TrimSpace(req.Date)
	if req.ServiceID == "" {
		return "", domainerr.Validation("serviceId is required")
	}
	if req.Date == "" {
		return "", domainerr.Validation("date is required")
	}
	if req.ProviderEmail != "" && models.NormalizeEmail(req.ProviderEmail) == caller.Email {
		return "", domainerr.ErrSelfBooking
	}

	svc, err := s.lookupService(ctx, req.ServiceID)
	if err != nil {
		return "", err
	}
	if models.NormalizeEmail(svc.Provider.Email) == caller.Email {
		return "", domainerr.ErrSelfBooking
	}
	// Any accepted spelling of the id is stored in canonical form, which is what
	// the unique (serviceId, userEmail) index keys on.
	req.ServiceID = svc.ID.Hex()

	existing, err := s.Repo.FindByServiceAndUser(ctx, req.ServiceID, caller.Email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", domainerr.ErrAlreadyBooked
	}

	b := &models.Booking{
		ServiceID:     req.ServiceID,
		ServiceName:   svc.Name,
		ServiceImage:  svc.ImageURL,
		Price:         svc.Price,
		ProviderEmail: svc.Provider.Email,
		ProviderName:  svc.Provider.Name,
		UserUID:       caller.UID,
		UserEmail:     caller.Email,
		UserName:      caller.DisplayName(),
		Date:          req.Date,
		Instruction:   strings.TrimSpace(req.Instruction),
		ServiceStatus: models.StatusPending,
		BookedAt:      s.now(),
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.Logger.Info("concurrent duplicate booking rejected by index",
				zap.String("serviceID", req.ServiceID),
				zap.String("userEmail", caller.Email),
			)
			return "", domainerr.ErrAlreadyBooked
		}
		return "", fmt.Errorf("create booking: %w", err)
	}

	s.publish(ctx, models.BookingEvent{
		BookingID: b.ID.Hex(),
		Type:      models.EventBookingCreated,
		Actor:     caller.Email,
		ServiceID: b.ServiceID,
		ToStatus:  models.StatusPending,
		At:        b.BookedAt,
	})
	return b.ID.Hex(), nil
}

func (s *DefaultBookingService) lookupService(ctx context.Context, serviceID string) (*models.Service, error) {
	oid, err := primitive.ObjectIDFromHex(serviceID)
	if err != nil {
		return nil, domainerr.NotFound("Service")
	}
	svc, err := s.Catalog.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domainerr.NotFound("Service")
		}
		return nil, err
	}
	return svc, nil
}
