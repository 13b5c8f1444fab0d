package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"repairright/database/repository"
	"repairright/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a BookingRepository over the "bookings" collection.
// Index creation failure is fatal for the caller: without the unique index the
// one-booking-per-user-per-service rule is only checked, not enforced.
func NewMongoBookingRepo(db *mongo.Database) (BookingRepository, error) {
	repo := &MongoBookingRepo{coll: db.Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := repository.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "serviceId", Value: 1}, {Key: "userEmail", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_service_user"),
		},
		{Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "bookedAt", Value: -1}}},
		{Keys: bson.D{{Key: "providerEmail", Value: 1}, {Key: "bookedAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// FindByServiceAndUser looks up the user's booking of a service.
func (r *MongoBookingRepo) FindByServiceAndUser(ctx context.Context, serviceID, userEmail string) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	var b models.Booking
	err := r.coll.FindOne(ctx, bson.M{"serviceId": serviceID, "userEmail": userEmail}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error checking booking for service %s: %w", serviceID, err)
	}
	return &b, nil
}

// GetByID retrieves a booking by its ObjectID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("booking %s: %w", id.Hex(), err)
	}
	return &b, nil
}

func (r *MongoBookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "bookedAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// ListByUser returns the bookings a consumer made.
func (r *MongoBookingRepo) ListByUser(ctx context.Context, userEmail string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"userEmail": userEmail})
}

// ListByProvider returns the bookings a provider received.
func (r *MongoBookingRepo) ListByProvider(ctx context.Context, providerEmail string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"providerEmail": providerEmail})
}

// UpdateStatus performs the owner- and transition-filtered status write in a single
// findAndModify. Re-setting the current status leaves the document untouched.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, providerEmail string, from []models.BookingStatus, to models.BookingStatus, at time.Time) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":           id,
		"providerEmail": providerEmail,
		"serviceStatus": bson.M{"$in": from},
	}
	update := mongo.Pipeline{{{Key: "$set", Value: bson.D{
		{Key: "serviceStatus", Value: to},
		{Key: "updatedAt", Value: bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$serviceStatus", to}}, "$updatedAt", at,
		}}},
	}}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var before models.Booking
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&before); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error updating booking %s: %w", id.Hex(), err)
	}
	return &before, nil
}
