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

// GetWaitingByBooking returns the booking's current waiting offer, if any.
func (r *MongoOfferRepo) GetWaitingByBooking(ctx context.Context, bookingID string) (*models.Offer, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"booking_id": bookingID, "state": models.OfferStateWaiting}
	var offer models.Offer
	err := r.coll.FindOne(ctx, filter).Decode(&offer)
	if err == mongo.ErrNoDocuments {
		return nil, &NotFoundError{OfferID: bookingID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch waiting offer for booking %s: %w", bookingID, err)
	}
	return &offer, nil
}

// NextGeneration returns the generation number the next offer for this
// booking should carry.
func (r *MongoOfferRepo) NextGeneration(ctx context.Context, bookingID string) (int, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "generation", Value: -1}})
	var latest models.Offer
	err := r.coll.FindOne(ctx, bson.M{"booking_id": bookingID}, opts).Decode(&latest)
	if err == mongo.ErrNoDocuments {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to determine next generation for booking %s: %w", bookingID, err)
	}
	return latest.Generation + 1, nil
}

// ListDueWaiting returns waiting offers whose deadline has passed, ordered
// by deadline so the oldest expiries are handled first.
func (r *MongoOfferRepo) ListDueWaiting(ctx context.Context, now time.Time, limit int64) ([]models.Offer, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"state":    models.OfferStateWaiting,
		"deadline": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "deadline", Value: 1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list due offers: %w", err)
	}
	defer cursor.Close(ctx)

	var offers []models.Offer
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode due offers: %w", err)
	}
	return offers, nil
}

// ListByBooking returns all generations for a booking, oldest first.
func (r *MongoOfferRepo) ListByBooking(ctx context.Context, bookingID string) ([]models.Offer, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "generation", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers for booking %s: %w", bookingID, err)
	}
	defer cursor.Close(ctx)

	var offers []models.Offer
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode offers for booking %s: %w", bookingID, err)
	}
	return offers, nil
}
