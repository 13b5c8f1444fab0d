package catalogRepo

import (
	"context"

	"repairright/database/repository"
	"repairright/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogRepository defines data access for service listings.
type CatalogRepository interface {
	// List returns listings matching the query's search term in the requested order.
	List(ctx context.Context, query models.ServiceQuery) ([]models.Service, error)
	// ListByProvider returns listings whose provider.email equals email.
	ListByProvider(ctx context.Context, email string) ([]models.Service, error)
	// GetByID returns repository.ErrNotFound when no listing has the id.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error)
	// Create inserts svc and sets its ID.
	Create(ctx context.Context, svc *models.Service) error
	// UpdateOwned applies update to the listing only if provider.email equals ownerEmail.
	UpdateOwned(ctx context.Context, id primitive.ObjectID, ownerEmail string, update models.ServiceUpdate) (repository.WriteResult, error)
	// DeleteOwned removes the listing only if provider.email equals ownerEmail.
	DeleteOwned(ctx context.Context, id primitive.ObjectID, ownerEmail string) (repository.WriteResult, error)
}
