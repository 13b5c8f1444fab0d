package eventsRepo

import (
	"context"
	"fmt"
	"time"

	"repairright/database/repository"
	"repairright/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepository stores the booking audit trail.
type EventRepository interface {
	// Insert stores e. Re-delivered events with a known ID are ignored.
	Insert(ctx context.Context, e models.BookingEvent) error
	// ListByBooking returns the events of one booking, oldest first.
	ListByBooking(ctx context.Context, bookingID string) ([]models.BookingEvent, error)
}

// MongoEventRepo implements EventRepository using MongoDB.
type MongoEventRepo struct {
	coll *mongo.Collection
}

// NewMongoEventRepo creates an EventRepository over the "booking_events" collection.
func NewMongoEventRepo(db *mongo.Database) EventRepository {
	repo := &MongoEventRepo{coll: db.Collection("booking_events")}
	ctx, cancel := repository.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookingId", Value: 1}, {Key: "at", Value: 1}}},
	})
	if err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// Insert upserts on the event id so retried tasks do not duplicate records.
func (r *MongoEventRepo) Insert(ctx context.Context, e models.BookingEvent) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": e.ID}, bson.M{"$setOnInsert": e}, opts); err != nil {
		return fmt.Errorf("failed to store booking event %s: %w", e.ID, err)
	}
	return nil
}

// ListByBooking returns a booking's audit trail.
func (r *MongoEventRepo) ListByBooking(ctx context.Context, bookingID string) ([]models.BookingEvent, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"bookingId": bookingID}, options.Find().SetSort(bson.D{{Key: "at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list booking events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []models.BookingEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode booking events: %w", err)
	}
	return events, nil
}
