package repository

import (
	"context"
	"errors"
	"fmt"

	"parkslot/pkg/logger"
	"parkslot/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"

	// The whole collection lives in one document, mirroring the file layout.
	// ReplaceOne on a single document is atomic, which keeps the Store
	// contract identical across backends.
	documentID = "bookings"
)

type MongoStore struct {
	collection *mongo.Collection
	log        *logger.Logger
}

func NewMongoStore(db *mongo.Database, log *logger.Logger) *MongoStore {
	return &MongoStore{
		collection: db.Collection(CollectionName),
		log:        log,
	}
}

// ReadAll treats a missing or undecodable document as an empty collection,
// matching the file backend. Transport failures do surface: an unreachable
// database is not an empty one.
func (s *MongoStore) ReadAll(ctx context.Context) ([]model.Booking, error) {
	raw, err := s.collection.FindOne(ctx, bson.M{"_id": documentID}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []model.Booking{}, nil
		}
		return nil, fmt.Errorf("failed to read bookings document: %w", err)
	}

	var doc document
	if err := bson.Unmarshal(raw, &doc); err != nil {
		s.log.Warn("Bookings document undecodable, treating as empty", "error", err)
		return []model.Booking{}, nil
	}

	if doc.Bookings == nil {
		return []model.Booking{}, nil
	}
	return doc.Bookings, nil
}

func (s *MongoStore) WriteAll(ctx context.Context, bookings []model.Booking) error {
	if bookings == nil {
		bookings = []model.Booking{}
	}

	replacement := bson.M{
		"_id":      documentID,
		"bookings": bookings,
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": documentID}, replacement, opts); err != nil {
		return fmt.Errorf("failed to write bookings document: %w", err)
	}

	return nil
}
