// Package memory provides in-process implementations of the repositories. They apply
// the same filters and unique constraints as the Mongo versions and back the tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"repairright/database/repository"
	bookingRepo "repairright/database/repository/booking"
	catalogRepo "repairright/database/repository/catalog"
	eventsRepo "repairright/database/repository/events"
	"repairright/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	_ catalogRepo.CatalogRepository = (*CatalogRepo)(nil)
	_ bookingRepo.BookingRepository = (*BookingRepo)(nil)
	_ eventsRepo.EventRepository    = (*EventRepo)(nil)
)

// CatalogRepo is an in-memory CatalogRepository.
type CatalogRepo struct {
	mu       sync.RWMutex
	services map[primitive.ObjectID]models.Service
}

func NewCatalogRepo() *CatalogRepo {
	return &CatalogRepo{services: map[primitive.ObjectID]models.Service{}}
}

func matchesSearch(s models.Service, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range []string{s.Name, s.Area, s.Description, s.Provider.Name} {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func sortServices(out []models.Service, order string) {
	sort.SliceStable(out, func(i, j int) bool {
		switch order {
		case models.SortPriceAsc:
			if out[i].Price != out[j].Price {
				return out[i].Price < out[j].Price
			}
		case models.SortPriceDesc:
			if out[i].Price != out[j].Price {
				return out[i].Price > out[j].Price
			}
		case models.SortNewest:
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
}

func (r *CatalogRepo) List(_ context.Context, query models.ServiceQuery) ([]models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Service{}
	for _, s := range r.services {
		if matchesSearch(s, query.Search) {
			out = append(out, s)
		}
	}
	sortServices(out, query.Sort)
	return out, nil
}

func (r *CatalogRepo) ListByProvider(_ context.Context, email string) ([]models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Service{}
	for _, s := range r.services {
		if s.Provider.Email == email {
			out = append(out, s)
		}
	}
	sortServices(out, models.SortNewest)
	return out, nil
}

func (r *CatalogRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *CatalogRepo) Create(_ context.Context, svc *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if svc.ID.IsZero() {
		svc.ID = primitive.NewObjectID()
	}
	r.services[svc.ID] = *svc
	return nil
}

func (r *CatalogRepo) UpdateOwned(_ context.Context, id primitive.ObjectID, ownerEmail string, u models.ServiceUpdate) (repository.WriteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok || s.Provider.Email != ownerEmail {
		return repository.WriteResult{}, nil
	}
	before := s
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Description != nil {
		s.Description = *u.Description
	}
	if u.Area != nil {
		s.Area = *u.Area
	}
	if u.Price != nil {
		s.Price = *u.Price
	}
	if u.ImageURL != nil {
		s.ImageURL = *u.ImageURL
	}
	s.UpdatedAt = time.Now()
	r.services[id] = s

	res := repository.WriteResult{Matched: 1}
	before.UpdatedAt = s.UpdatedAt
	if before != s {
		res.Modified = 1
	}
	return res, nil
}

func (r *CatalogRepo) DeleteOwned(_ context.Context, id primitive.ObjectID, ownerEmail string) (repository.WriteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok || s.Provider.Email != ownerEmail {
		return repository.WriteResult{}, nil
	}
	delete(r.services, id)
	return repository.WriteResult{Matched: 1, Deleted: 1}, nil
}

// BookingRepo is an in-memory BookingRepository with the (serviceId, userEmail)
// uniqueness of the Mongo index.
type BookingRepo struct {
	mu       sync.RWMutex
	bookings map[primitive.ObjectID]models.Booking

	// BeforeCreate, when set, runs at the start of Create before the lock is taken.
	BeforeCreate func()
}

func NewBookingRepo() *BookingRepo {
	return &BookingRepo{bookings: map[primitive.ObjectID]models.Booking{}}
}

func (r *BookingRepo) Create(_ context.Context, b *models.Booking) error {
	if r.BeforeCreate != nil {
		r.BeforeCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bookings {
		if existing.ServiceID == b.ServiceID && existing.UserEmail == b.UserEmail {
			return repository.ErrDuplicate
		}
	}
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	r.bookings[b.ID] = *b
	return nil
}

func (r *BookingRepo) FindByServiceAndUser(_ context.Context, serviceID, userEmail string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.bookings {
		if b.ServiceID == serviceID && b.UserEmail == userEmail {
			return &b, nil
		}
	}
	return nil, nil
}

func (r *BookingRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *BookingRepo) list(match func(models.Booking) bool) []models.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Booking{}
	for _, b := range r.bookings {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BookedAt.After(out[j].BookedAt) })
	return out
}

func (r *BookingRepo) ListByUser(_ context.Context, userEmail string) ([]models.Booking, error) {
	return r.list(func(b models.Booking) bool { return b.UserEmail == userEmail }), nil
}

func (r *BookingRepo) ListByProvider(_ context.Context, providerEmail string) ([]models.Booking, error) {
	return r.list(func(b models.Booking) bool { return b.ProviderEmail == providerEmail }), nil
}

func (r *BookingRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, providerEmail string, from []models.BookingStatus, to models.BookingStatus, at time.Time) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.ProviderEmail != providerEmail {
		return nil, nil
	}
	allowed := false
	for _, f := range from {
		if b.ServiceStatus == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, nil
	}
	before := b
	if b.ServiceStatus != to {
		b.ServiceStatus = to
		b.UpdatedAt = at
		r.bookings[id] = b
	}
	return &before, nil
}

// EventRepo is an in-memory EventRepository.
type EventRepo struct {
	mu     sync.Mutex
	events []models.BookingEvent
}

func NewEventRepo() *EventRepo {
	return &EventRepo{}
}

func (r *EventRepo) Insert(_ context.Context, e models.BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.events {
		if existing.ID == e.ID {
			return nil
		}
	}
	r.events = append(r.events, e)
	return nil
}

func (r *EventRepo) ListByBooking(_ context.Context, bookingID string) ([]models.BookingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.BookingEvent{}
	for _, e := range r.events {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}
