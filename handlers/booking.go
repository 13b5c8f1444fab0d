package handlers

import (
	"net/http"

	"repairright/models"
	bookingService "repairright/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the booking endpoints.
type BookingHandler struct {
	BookingSvc bookingService.BookingService
}

func views(bookings []models.Booking) []models.BookingView {
	out := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.View())
	}
	return out
}

// CheckBooking handles GET /bookings/check/:serviceId/:userEmail.
func (h *BookingHandler) CheckBooking(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	res, err := h.BookingSvc.CheckExistingBooking(c.Request.Context(), c.Param("serviceId"), c.Param("userEmail"), id)
	if err != nil {
		respondError(c, err, "Failed to check booking status")
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	bookingID, err := h.BookingSvc.CreateBooking(c.Request.Context(), req, id)
	if err != nil {
		respondError(c, err, "Failed to create booking")
		return
	}
	getLogger(c).Info("booking created",
		zap.String("bookingID", bookingID),
		zap.String("serviceID", req.ServiceID),
	)
	c.JSON(http.StatusOK, gin.H{
		"message":   "Booking created successfully",
		"bookingId": bookingID,
	})
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	b, err := h.BookingSvc.GetBooking(c.Request.Context(), c.Param("id"), id)
	if err != nil {
		respondError(c, err, "Failed to fetch booking")
		return
	}
	c.JSON(http.StatusOK, b.View())
}

// BookingEvents handles GET /bookings/:id/events.
func (h *BookingHandler) BookingEvents(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	events, err := h.BookingSvc.ListBookingEvents(c.Request.Context(), c.Param("id"), id)
	if err != nil {
		respondError(c, err, "Failed to fetch booking history")
		return
	}
	c.JSON(http.StatusOK, events)
}

// MyBookings handles GET /my-bookings.
func (h *BookingHandler) MyBookings(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	bookings, err := h.BookingSvc.ListUserBookings(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch bookings")
		return
	}
	c.JSON(http.StatusOK, views(bookings))
}

// ServiceToDo handles GET /service-to-do.
func (h *BookingHandler) ServiceToDo(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	bookings, err := h.BookingSvc.ListProviderBookings(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch bookings")
		return
	}
	c.JSON(http.StatusOK, views(bookings))
}

// UpdateStatus handles PATCH /bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	b, changed, err := h.BookingSvc.UpdateBookingStatus(c.Request.Context(), c.Param("id"), req.ServiceStatus, id)
	if err != nil {
		respondError(c, err, "Failed to update booking status")
		return
	}
	modified := 0
	if changed {
		modified = 1
	}
	c.JSON(http.StatusOK, gin.H{
		"acknowledged":  true,
		"matchedCount":  1,
		"modifiedCount": modified,
		"booking":       b.View(),
	})
}
