package offerRepo

import (
	"context"
	"fmt"
	"time"

	"velora/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the offer store relies on for its
// invariants and queries.
func (r *MongoOfferRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Partial unique index: at most one waiting offer per booking. A second
	// concurrent Create for the same booking fails with a duplicate key.
	waitingOpts := options.Index().
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"state": models.OfferStateWaiting})
	oneWaitingIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_id", Value: 1}},
		Options: waitingOpts,
	}

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// One offer per (booking, generation).
		{
			Keys: bson.D{
				{Key: "booking_id", Value: 1},
				{Key: "generation", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		// Sweep query: waiting offers ordered by deadline.
		{Keys: bson.D{
			{Key: "state", Value: 1},
			{Key: "deadline", Value: 1},
		}},
		oneWaitingIdx,
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create offer indexes: %w", err)
	}
	return nil
}
