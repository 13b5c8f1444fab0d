package models

import "time"

// Booking event types.
const (
	EventBookingCreated = "booking:created"
	EventStatusChanged  = "booking:status"
)

// BookingEvent is an audit record of a booking lifecycle change.
type BookingEvent struct {
	ID         string        `bson:"id" json:"id"`
	BookingID  string        `bson:"bookingId" json:"bookingId"`
	Type       string        `bson:"type" json:"type"`
	Actor      string        `bson:"actor" json:"actor"`
	ServiceID  string        `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
	FromStatus BookingStatus `bson:"fromStatus,omitempty" json:"fromStatus,omitempty"`
	ToStatus   BookingStatus `bson:"toStatus" json:"toStatus"`
	At         time.Time     `bson:"at" json:"at"`
}
