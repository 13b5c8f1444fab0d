package handlers

import (
	"repairright/services/auth"
	bookingService "repairright/services/booking"
	catalogService "repairright/services/catalog"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers and what the router needs to protect them.
type HandlerBundle struct {
	Verifier auth.TokenVerifier

	// Catalog endpoints
	ListServicesHandler  gin.HandlerFunc
	GetServiceHandler    gin.HandlerFunc
	MyServicesHandler    gin.HandlerFunc
	CreateServiceHandler gin.HandlerFunc
	UpdateServiceHandler gin.HandlerFunc
	DeleteServiceHandler gin.HandlerFunc

	// Booking endpoints
	CheckBookingHandler  gin.HandlerFunc
	CreateBookingHandler gin.HandlerFunc
	GetBookingHandler    gin.HandlerFunc
	BookingEventsHandler gin.HandlerFunc
	MyBookingsHandler    gin.HandlerFunc
	ServiceToDoHandler   gin.HandlerFunc
	UpdateStatusHandler  gin.HandlerFunc

	WelcomeHandler gin.HandlerFunc
	HealthHandler  gin.HandlerFunc
}

// NewHandlerBundle builds every handler from the services.
func NewHandlerBundle(verifier auth.TokenVerifier, catalog catalogService.CatalogService, bookings bookingService.BookingService) *HandlerBundle {
	ch := &CatalogHandler{CatalogSvc: catalog}
	bh := &BookingHandler{BookingSvc: bookings}

	return &HandlerBundle{
		Verifier: verifier,

		ListServicesHandler:  ch.ListServices,
		GetServiceHandler:    ch.GetService,
		MyServicesHandler:    ch.MyServices,
		CreateServiceHandler: ch.CreateService,
		UpdateServiceHandler: ch.UpdateService,
		DeleteServiceHandler: ch.DeleteService,

		CheckBookingHandler:  bh.CheckBooking,
		CreateBookingHandler: bh.CreateBooking,
		GetBookingHandler:    bh.GetBooking,
		BookingEventsHandler: bh.BookingEvents,
		MyBookingsHandler:    bh.MyBookings,
		ServiceToDoHandler:   bh.ServiceToDo,
		UpdateStatusHandler:  bh.UpdateStatus,

		WelcomeHandler: Welcome,
		HealthHandler:  Health,
	}
}
