package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus is the service progress of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusWorking   BookingStatus = "working"
	StatusCompleted BookingStatus = "completed"
)

// IsValid reports whether s is one of the known statuses.
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusWorking, StatusCompleted:
		return true
	}
	return false
}

// Predecessors lists the statuses a booking may move to s from, s itself included.
func (s BookingStatus) Predecessors() []BookingStatus {
	switch s {
	case StatusPending:
		return []BookingStatus{StatusPending}
	case StatusWorking:
		return []BookingStatus{StatusPending, StatusWorking}
	case StatusCompleted:
		return []BookingStatus{StatusPending, StatusWorking, StatusCompleted}
	}
	return nil
}

// Booking links a consumer to a provider's service. Service and provider fields are
// snapshots taken at booking time.
type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ServiceID     string             `bson:"serviceId" json:"serviceId"`
	ServiceName   string             `bson:"serviceName" json:"serviceName"`
	ServiceImage  string             `bson:"serviceImage" json:"serviceImage"`
	Price         float64            `bson:"price" json:"price"`
	ProviderEmail string             `bson:"providerEmail" json:"providerEmail"`
	ProviderName  string             `bson:"providerName" json:"providerName"`
	UserUID       string             `bson:"userUid,omitempty" json:"userUid,omitempty"`
	UserEmail     string             `bson:"userEmail" json:"userEmail"`
	UserName      string             `bson:"userName" json:"userName"`
	Date          string             `bson:"date" json:"date"`
	Instruction   string             `bson:"instruction" json:"instruction"`
	ServiceStatus BookingStatus      `bson:"serviceStatus" json:"serviceStatus"`
	BookedAt      time.Time          `bson:"bookedAt" json:"bookedAt"`
	UpdatedAt     time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitzero"`
}

// BookingView is the wire form of a booking. CurrentUserEmail mirrors UserEmail for
// clients that still read the older field name.
type BookingView struct {
	Booking
	CurrentUserEmail string `json:"currentUserEmail"`
}

// View wraps b for JSON output.
func (b Booking) View() BookingView {
	return BookingView{Booking: b, CurrentUserEmail: b.UserEmail}
}

// BookingRequest is the body of POST /bookings. Snapshot fields are resolved
// server side from the stored listing; the ones sent here are ignored.
type BookingRequest struct {
	ServiceID     string `json:"serviceId"`
	Date          string `json:"date"`
	Instruction   string `json:"instruction"`
	ProviderEmail string `json:"providerEmail"`
}

// StatusUpdateRequest is the body of PATCH /bookings/:id/status.
type StatusUpdateRequest struct {
	ServiceStatus BookingStatus `json:"serviceStatus"`
}

// BookingCheck is the result of an existing-booking lookup.
type BookingCheck struct {
	HasBooked bool         `json:"hasBooked"`
	Booking   *BookingView `json:"booking"`
}
