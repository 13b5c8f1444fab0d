package bookingRepo

import (
	"context"
	"time"

	"repairright/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingRepository defines data access for bookings.
type BookingRepository interface {
	// Create inserts b and sets its ID. It returns repository.ErrDuplicate when a
	// booking for the same (serviceId, userEmail) already exists.
	Create(ctx context.Context, b *models.Booking) error
	// FindByServiceAndUser returns nil, nil when the user has not booked the service.
	FindByServiceAndUser(ctx context.Context, serviceID, userEmail string) (*models.Booking, error)
	// GetByID returns repository.ErrNotFound when no booking has the id.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	// ListByUser returns bookings made by userEmail.
	ListByUser(ctx context.Context, userEmail string) ([]models.Booking, error)
	// ListByProvider returns bookings received by providerEmail.
	ListByProvider(ctx context.Context, providerEmail string) ([]models.Booking, error)
	// UpdateStatus sets serviceStatus to `to` only on the booking with the id whose
	// providerEmail matches and whose current status is one of from. It returns the
	// booking as it was before the write, or nil, nil when nothing matched.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, providerEmail string, from []models.BookingStatus, to models.BookingStatus, at time.Time) (*models.Booking, error)
}
