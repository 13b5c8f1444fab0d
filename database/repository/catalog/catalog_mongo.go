package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"repairright/database/repository"
	"repairright/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	coll *mongo.Collection
}

// NewMongoCatalogRepo creates a CatalogRepository over the "services" collection.
func NewMongoCatalogRepo(db *mongo.Database) CatalogRepository {
	repo := &MongoCatalogRepo{coll: db.Collection("services")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoCatalogRepo) ensureIndexes() error {
	ctx, cancel := repository.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "provider.email", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// searchFilter matches term case-insensitively against the listing's text fields.
func searchFilter(term string) bson.M {
	if term == "" {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	return bson.M{"$or": []bson.M{
		{"name": pattern},
		{"area": pattern},
		{"description": pattern},
		{"provider.name": pattern},
	}}
}

func sortOption(sort string) bson.D {
	switch sort {
	case models.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case models.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	case models.SortNewest:
		return bson.D{{Key: "_id", Value: -1}}
	}
	return bson.D{{Key: "_id", Value: 1}}
}

func (r *MongoCatalogRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Service, error) {
	ctx, cancel := repository.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve services: %w", err)
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

// List returns listings matching the query.
func (r *MongoCatalogRepo) List(ctx context.Context, query models.ServiceQuery) ([]models.Service, error) {
	return r.find(ctx, searchFilter(query.Search), options.Find().SetSort(sortOption(query.Sort)))
}

// ListByProvider returns the listings owned by email.
func (r *MongoCatalogRepo) ListByProvider(ctx context.Context, email string) ([]models.Service, error) {
	return r.find(ctx, bson.M{"provider.email": email}, options.Find().SetSort(sortOption(models.SortNewest)))
}

// GetByID retrieves a listing by its ObjectID.
func (r *MongoCatalogRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	var svc models.Service
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&svc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch service %s: %w", id.Hex(), err)
	}
	return &svc, nil
}

// Create inserts a new listing.
func (r *MongoCatalogRepo) Create(ctx context.Context, svc *models.Service) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	if svc.ID.IsZero() {
		svc.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, svc); err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

// updateDocument builds the $set document for the non-nil fields of u.
func updateDocument(u models.ServiceUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Area != nil {
		set["area"] = *u.Area
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.ImageURL != nil {
		set["imageUrl"] = *u.ImageURL
	}
	return set
}

// UpdateOwned updates a listing filtered by id and owner.
func (r *MongoCatalogRepo) UpdateOwned(ctx context.Context, id primitive.ObjectID, ownerEmail string, update models.ServiceUpdate) (repository.WriteResult, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "provider.email": ownerEmail}
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": updateDocument(update, time.Now())})
	if err != nil {
		return repository.WriteResult{}, fmt.Errorf("failed to update service %s: %w", id.Hex(), err)
	}
	return repository.WriteResult{Matched: result.MatchedCount, Modified: result.ModifiedCount}, nil
}

// DeleteOwned deletes a listing filtered by id and owner.
func (r *MongoCatalogRepo) DeleteOwned(ctx context.Context, id primitive.ObjectID, ownerEmail string) (repository.WriteResult, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "provider.email": ownerEmail})
	if err != nil {
		return repository.WriteResult{}, fmt.Errorf("failed to delete service %s: %w", id.Hex(), err)
	}
	return repository.WriteResult{Matched: result.DeletedCount, Deleted: result.DeletedCount}, nil
}
