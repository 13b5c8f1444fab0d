package client

import (
	"context"
	"sync"

	"repairright/models"
	"repairright/services/domainerr"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Outcome is what a booking flow action resulted in, for the UI to present.
type Outcome int

const (
	OutcomeNone Outcome = iota
	// OutcomeFormOpened: the booking form is showing.
	OutcomeFormOpened
	// OutcomeAlreadyBooked: the user holds a booking for this service.
	OutcomeAlreadyBooked
	// OutcomeSelfBooking: the user is the service's provider.
	OutcomeSelfBooking
	// OutcomeBooked: the booking was created.
	OutcomeBooked
	// OutcomeFailed: the attempt failed; the error says why.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFormOpened:
		return "form_opened"
	case OutcomeAlreadyBooked:
		return "already_booked"
	case OutcomeSelfBooking:
		return "self_booking"
	case OutcomeBooked:
		return "booked"
	case OutcomeFailed:
		return "failed"
	}
	return "none"
}

// BookingAPI is the part of APIClient the flow uses.
type BookingAPI interface {
	CheckExistingBooking(ctx context.Context, token, serviceID, userEmail string) (models.BookingCheck, error)
	CreateBooking(ctx context.Context, token string, req models.BookingRequest) (CreateBookingResult, error)
}

// TokenFunc returns a fresh bearer token for the signed-in user.
type TokenFunc func(ctx context.Context) (string, error)

// BookingForm is what the user fills in before purchasing.
type BookingForm struct {
	Date        string
	Instruction string
}

// FlowState is a snapshot of the flow for rendering.
type FlowState struct {
	ShowForm         bool
	Loading          bool
	HasAlreadyBooked bool
	ExistingBooking  *models.BookingView
	LastBookingID    string
}

// BookingFlow drives booking one service as one signed-in user. The client-side
// checks mirror the server's; the server stays authoritative.
type BookingFlow struct {
	API     BookingAPI
	Service models.Service
	User    models.Identity
	Token   TokenFunc

	mu    sync.Mutex
	state FlowState
}

func NewBookingFlow(api BookingAPI, service models.Service, user models.Identity, token TokenFunc) *BookingFlow {
	return &BookingFlow{API: api, Service: service, User: user, Token: token}
}

// State returns the current state.
func (f *BookingFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *BookingFlow) signedIn() bool {
	return f.User.Email != "" && f.Token != nil
}

// Load asks the API whether the user already booked the service.
func (f *BookingFlow) Load(ctx context.Context) error {
	if !f.signedIn() || f.Service.ID.IsZero() {
		return nil
	}
	token, err := f.Token(ctx)
	if err != nil {
		return err
	}
	res, err := f.API.CheckExistingBooking(ctx, token, f.Service.ID.Hex(), f.User.Email)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.HasAlreadyBooked = res.HasBooked
	f.state.ExistingBooking = res.Booking
	return nil
}

// BookNow opens the booking form unless the user already booked.
func (f *BookingFlow) BookNow() Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.HasAlreadyBooked {
		return OutcomeAlreadyBooked
	}
	f.state.ShowForm = true
	return OutcomeFormOpened
}

// CloseForm hides the booking form.
func (f *BookingFlow) CloseForm() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.ShowForm = false
}

// Purchase submits the booking. An already-booked rejection from the server updates
// the local state and is reported as OutcomeAlreadyBooked, not as an error.
func (f *BookingFlow) Purchase(ctx context.Context, form BookingForm) (Outcome, error) {
	if f.User.Email != "" && models.NormalizeEmail(f.User.Email) == models.NormalizeEmail(f.Service.Provider.Email) {
		return OutcomeSelfBooking, nil
	}

	f.mu.Lock()
	if f.state.HasAlreadyBooked {
		f.mu.Unlock()
		return OutcomeAlreadyBooked, nil
	}
	if f.state.Loading {
		f.mu.Unlock()
		return OutcomeNone, nil
	}
	f.state.Loading = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.state.Loading = false
		f.mu.Unlock()
	}()

	if !f.signedIn() {
		return OutcomeFailed, &APIError{Status: 401, Message: "Unauthorized: No token provided"}
	}
	token, err := f.Token(ctx)
	if err != nil {
		return OutcomeFailed, err
	}
	res, err := f.API.CreateBooking(ctx, token, models.BookingRequest{
		ServiceID:     f.Service.ID.Hex(),
		Date:          form.Date,
		Instruction:   form.Instruction,
		ProviderEmail: f.Service.Provider.Email,
	})

	switch {
	case err == nil:
		view := f.fetchExisting(ctx, token)
		if view == nil {
			view = f.submittedView(res.BookingID, form)
		}
		f.mu.Lock()
		f.state.ShowForm = false
		f.state.HasAlreadyBooked = true
		f.state.ExistingBooking = view
		f.state.LastBookingID = res.BookingID
		f.mu.Unlock()
		return OutcomeBooked, nil
	case HasCode(err, domainerr.CodeAlreadyBooked):
		view := f.fetchExisting(ctx, token)
		f.mu.Lock()
		f.state.HasAlreadyBooked = true
		if view != nil {
			f.state.ExistingBooking = view
		}
		f.mu.Unlock()
		return OutcomeAlreadyBooked, nil
	case HasCode(err, domainerr.CodeSelfBooking):
		return OutcomeSelfBooking, nil
	default:
		return OutcomeFailed, err
	}
}

// fetchExisting re-runs the existing-booking check. Nil means it could not tell.
func (f *BookingFlow) fetchExisting(ctx context.Context, token string) *models.BookingView {
	res, err := f.API.CheckExistingBooking(ctx, token, f.Service.ID.Hex(), f.User.Email)
	if err != nil || !res.HasBooked {
		return nil
	}
	return res.Booking
}

// submittedView describes a just-created booking from what was submitted.
func (f *BookingFlow) submittedView(bookingID string, form BookingForm) *models.BookingView {
	id, _ := primitive.ObjectIDFromHex(bookingID)
	view := models.Booking{
		ID:            id,
		ServiceID:     f.Service.ID.Hex(),
		ServiceName:   f.Service.Name,
		ServiceImage:  f.Service.ImageURL,
		Price:         f.Service.Price,
		ProviderEmail: f.Service.Provider.Email,
		ProviderName:  f.Service.Provider.Name,
		UserUID:       f.User.UID,
		UserEmail:     f.User.Email,
		UserName:      f.User.DisplayName(),
		Date:          form.Date,
		Instruction:   form.Instruction,
		ServiceStatus: models.StatusPending,
	}.View()
	return &view
}
