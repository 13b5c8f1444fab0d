package booking

import (
	"context"
	"time"

	bookingRepo "repairright/database/repository/booking"
	catalogRepo "repairright/database/repository/catalog"
	eventsRepo "repairright/database/repository/events"
	"repairright/models"
	"repairright/services/tasks"

	"go.uber.org/zap"
)

// BookingService enforces the booking lifecycle: who may book what, and who may move
// a booking through its statuses.
type BookingService interface {
	CheckExistingBooking(ctx context.Context, serviceID, userEmail string, caller models.Identity) (models.BookingCheck, error)
	CreateBooking(ctx context.Context, req models.BookingRequest, caller models.Identity) (string, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus, caller models.Identity) (*models.Booking, bool, error)
	GetBooking(ctx context.Context, bookingID string, caller models.Identity) (*models.Booking, error)
	ListUserBookings(ctx context.Context, caller models.Identity) ([]models.Booking, error)
	ListProviderBookings(ctx context.Context, caller models.Identity) ([]models.Booking, error)
	ListBookingEvents(ctx context.Context, bookingID string, caller models.Identity) ([]models.BookingEvent, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Repo    bookingRepo.BookingRepository
	Catalog catalogRepo.CatalogRepository
	Events  tasks.EventPublisher
	// History reads the audit trail the event worker writes. Nil reads as empty.
	History eventsRepo.EventRepository
	Logger  *zap.Logger
	Now     func() time.Time
}

// NewBookingService wires a DefaultBookingService. A nil publisher drops events.
func NewBookingService(repo bookingRepo.BookingRepository, catalog catalogRepo.CatalogRepository, events tasks.EventPublisher, logger *zap.Logger) *DefaultBookingService {
	if events == nil {
		events = tasks.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Repo:    repo,
		Catalog: catalog,
		Events:  events,
		Logger:  logger,
		Now:     time.Now,
	}
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
