package offerRepo

import (
	"context"
	"time"

	"velora/config"
	"velora/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoOfferRepo implements OfferRepository backed by the offers collection.
type MongoOfferRepo struct {
	coll *mongo.Collection
}

// NewMongoOfferRepo returns a Mongo-backed offer repository.
func NewMongoOfferRepo() *MongoOfferRepo {
	coll := database.MongoClient.
		Database(config.AppConfig.DatabaseName).
		Collection("offers")
	return &MongoOfferRepo{coll: coll}
}

func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}
