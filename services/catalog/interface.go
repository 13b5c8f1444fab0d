package catalog

import (
	"context"
	"time"

	"repairright/database/repository"
	catalogRepo "repairright/database/repository/catalog"
	"repairright/models"

	"go.uber.org/zap"
)

// CatalogService manages service listings. Mutations are gated on the caller owning
// the listing.
type CatalogService interface {
	ListServices(ctx context.Context, query models.ServiceQuery) ([]models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	ListProviderServices(ctx context.Context, caller models.Identity) ([]models.Service, error)
	CreateService(ctx context.Context, in models.ServiceInput, caller models.Identity) (*models.Service, error)
	UpdateService(ctx context.Context, id string, update models.ServiceUpdate, caller models.Identity) (repository.WriteResult, error)
	DeleteService(ctx context.Context, id string, caller models.Identity) (repository.WriteResult, error)
}

type DefaultCatalogService struct {
	Repo   catalogRepo.CatalogRepository
	Cache  Cache
	Logger *zap.Logger
	Now    func() time.Time
}

// NewCatalogService wires a DefaultCatalogService. A nil cache disables caching.
func NewCatalogService(repo catalogRepo.CatalogRepository, cache Cache, logger *zap.Logger) *DefaultCatalogService {
	if cache == nil {
		cache = NopCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultCatalogService{Repo: repo, Cache: cache, Logger: logger, Now: time.Now}
}

func (s *DefaultCatalogService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
