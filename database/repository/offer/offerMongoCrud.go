package offerRepo

import (
	"context"
	"fmt"
	"time"

	"velora/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new offer document. The partial unique index on
// (booking_id, state=waiting) turns a concurrent second waiting offer into a
// duplicate-key error, reported as ConflictError.
func (r *MongoOfferRepo) Create(ctx context.Context, offer *models.Offer) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, offer)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &ConflictError{BookingID: offer.BookingID}
		}
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

// GetByID fetches an offer document by its ID.
func (r *MongoOfferRepo) GetByID(ctx context.Context, offerID string) (*models.Offer, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var offer models.Offer
	err := r.coll.FindOne(ctx, bson.M{"id": offerID}).Decode(&offer)
	if err == mongo.ErrNoDocuments {
		return nil, &NotFoundError{OfferID: offerID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch offer %s: %w", offerID, err)
	}
	return &offer, nil
}

// CompareAndTransition performs the atomic conditional state update. The
// filter matches on both id and the expected state, so a single UpdateOne is
// the linearization point: of any number of racing transitions exactly one
// matches, the rest observe StaleStateError.
func (r *MongoOfferRepo) CompareAndTransition(ctx context.Context, offerID, fromState, toState string, extra TransitionExtra) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": offerID, "state": fromState}
	set := bson.M{"state": toState}
	if extra.AcceptedBy != "" {
		set["accepted_by"] = extra.AcceptedBy
	}
	if extra.AcceptedAt != nil {
		set["accepted_at"] = extra.AcceptedAt
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to transition offer %s: %w", offerID, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: the offer is either gone or already moved on.
	var current models.Offer
	err = r.coll.FindOne(ctx, bson.M{"id": offerID}).Decode(&current)
	if err == mongo.ErrNoDocuments {
		return &NotFoundError{OfferID: offerID}
	}
	if err != nil {
		return fmt.Errorf("failed to re-read offer %s: %w", offerID, err)
	}
	return &StaleStateError{OfferID: offerID, Expected: fromState, Actual: current.State}
}
