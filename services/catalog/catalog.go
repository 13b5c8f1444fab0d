package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"repairright/database/repository"
	"repairright/models"
	"repairright/services/domainerr"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func listKey(q models.ServiceQuery) string {
	return fmt.Sprintf("list:%s:%s", q.Sort, strings.ToLower(strings.TrimSpace(q.Search)))
}

func serviceKey(id primitive.ObjectID) string {
	return "service:" + id.Hex()
}

// ListServices returns the public catalog, optionally filtered by a search term and
// ordered by sort.
func (s *DefaultCatalogService) ListServices(ctx context.Context, query models.ServiceQuery) ([]models.Service, error) {
	query.Search = strings.TrimSpace(query.Search)
	switch query.Sort {
	case "", models.SortPriceAsc, models.SortPriceDesc, models.SortNewest:
	default:
		return nil, domainerr.Validation(fmt.Sprintf("Unknown sort %q", query.Sort))
	}

	key := listKey(query)
	cached, gen, ok := s.Cache.Get(ctx, key)
	if ok {
		var services []models.Service
		if err := json.Unmarshal(cached, &services); err == nil {
			return services, nil
		}
	}

	services, err := s.Repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	s.store(ctx, gen, key, services)
	return services, nil
}

// GetService returns one listing. Malformed ids are reported as not found.
func (s *DefaultCatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domainerr.NotFound("Service")
	}

	key := serviceKey(oid)
	cached, gen, ok := s.Cache.Get(ctx, key)
	if ok {
		var svc models.Service
		if err := json.Unmarshal(cached, &svc); err == nil {
			return &svc, nil
		}
	}

	svc, err := s.Repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domainerr.NotFound("Service")
		}
		return nil, err
	}
	s.store(ctx, gen, key, svc)
	return svc, nil
}

// ListProviderServices returns the caller's own listings. Not cached.
func (s *DefaultCatalogService) ListProviderServices(ctx context.Context, caller models.Identity) ([]models.Service, error) {
	return s.Repo.ListByProvider(ctx, caller.Email)
}

// CreateService stores a new listing owned by the caller.
func (s *DefaultCatalogService) CreateService(ctx context.Context, in models.ServiceInput, caller models.Identity) (*models.Service, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Area = strings.TrimSpace(in.Area)
	switch {
	case in.Name == "":
		return nil, domainerr.Validation("name is required")
	case in.Description == "":
		return nil, domainerr.Validation("description is required")
	case in.Area == "":
		return nil, domainerr.Validation("area is required")
	case in.Price < 0:
		return nil, domainerr.Validation("price must not be negative")
	}

	now := s.now()
	svc := &models.Service{
		Name:        in.Name,
		Description: in.Description,
		Area:        in.Area,
		Price:       in.Price,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Provider: models.ProviderSnapshot{
			UID:   caller.UID,
			Name:  caller.DisplayName(),
			Email: caller.Email,
			Image: caller.Picture,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	s.Cache.Invalidate(ctx)
	return svc, nil
}

func validateUpdate(u models.ServiceUpdate) error {
	if u.IsEmpty() {
		return domainerr.Validation("No fields to update")
	}
	for field, v := range map[string]*string{"name": u.Name, "description": u.Description, "area": u.Area} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return domainerr.Validation(field + " must not be empty")
		}
	}
	if u.Price != nil && *u.Price < 0 {
		return domainerr.Validation("price must not be negative")
	}
	return nil
}

// UpdateService applies update to a listing the caller owns.
func (s *DefaultCatalogService) UpdateService(ctx context.Context, id string, update models.ServiceUpdate, caller models.Identity) (repository.WriteResult, error) {
	if err := validateUpdate(update); err != nil {
		return repository.WriteResult{}, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.WriteResult{}, domainerr.NotFound("Service")
	}
	res, err := s.Repo.UpdateOwned(ctx, oid, caller.Email, update)
	if err != nil {
		return repository.WriteResult{}, err
	}
	if res.Matched == 0 {
		return res, s.explainOwnedMiss(ctx, oid, caller)
	}
	s.Cache.Invalidate(ctx)
	return res, nil
}

// DeleteService removes a listing the caller owns. Bookings of it are kept: their
// snapshot fields stand on their own.
func (s *DefaultCatalogService) DeleteService(ctx context.Context, id string, caller models.Identity) (repository.WriteResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.WriteResult{}, domainerr.NotFound("Service")
	}
	res, err := s.Repo.DeleteOwned(ctx, oid, caller.Email)
	if err != nil {
		return repository.WriteResult{}, err
	}
	if res.Deleted == 0 {
		return res, s.explainOwnedMiss(ctx, oid, caller)
	}
	s.Cache.Invalidate(ctx)
	return res, nil
}

// explainOwnedMiss runs after an owner-filtered write matched nothing.
func (s *DefaultCatalogService) explainOwnedMiss(ctx context.Context, id primitive.ObjectID, caller models.Identity) error {
	_, err := s.Repo.GetByID(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return domainerr.NotFound("Service")
	case err != nil:
		return err
	}
	s.Logger.Info("rejected listing mutation by non-owner",
		zap.String("serviceID", id.Hex()),
		zap.String("caller", caller.Email),
	)
	return domainerr.ErrForbidden
}

func (s *DefaultCatalogService) store(ctx context.Context, gen int64, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.Logger.Warn("failed to encode catalog cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	s.Cache.Set(ctx, gen, key, data)
}
