package providerRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"velora/config"
	"velora/database"
	"velora/models"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	availableCacheKey = "providers:available"
	availableCacheTTL = 15 * time.Second
)

// MongoProviderRepo implements ProviderRegistry using MongoDB with a short
// Redis read-through cache in front of the availability query.
type MongoProviderRepo struct {
	coll  *mongo.Collection
	cache *redis.Client
}

// NewMongoProviderRepo creates a new ProviderRegistry backed by MongoDB.
func NewMongoProviderRepo(cache *redis.Client) *MongoProviderRepo {
	coll := database.MongoClient.
		Database(config.AppConfig.DatabaseName).
		Collection("providers")
	return &MongoProviderRepo{coll: coll, cache: cache}
}

// GetByID fetches a provider record.
func (r *MongoProviderRepo) GetByID(ctx context.Context, providerID string) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var provider models.Provider
	err := r.coll.FindOne(ctx, bson.M{"id": providerID}).Decode(&provider)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("provider %s not found", providerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch provider %s: %w", providerID, err)
	}
	return &provider, nil
}

// ListAvailable returns the current set of available providers, serving from
// the cache when a recent snapshot exists.
func (r *MongoProviderRepo) ListAvailable(ctx context.Context) ([]models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, availableCacheKey).Result(); err == nil {
			var providers []models.Provider
			if err := json.Unmarshal([]byte(cached), &providers); err == nil {
				return providers, nil
			}
		}
	}

	cursor, err := r.coll.Find(ctx, bson.M{"is_available": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list available providers: %w", err)
	}
	defer cursor.Close(ctx)

	var providers []models.Provider
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("failed to decode available providers: %w", err)
	}

	if r.cache != nil {
		if data, err := json.Marshal(providers); err == nil {
			// Best effort; a cold cache just means the next read hits Mongo.
			_ = r.cache.Set(ctx, availableCacheKey, data, availableCacheTTL).Err()
		}
	}
	return providers, nil
}

// SetAvailability flips a provider's availability flag and drops the cached
// snapshot so escalations see the change immediately.
func (r *MongoProviderRepo) SetAvailability(ctx context.Context, providerID string, available bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"is_available": available,
		"updated_at":   time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": providerID}, update)
	if err != nil {
		return fmt.Errorf("failed to update availability for provider %s: %w", providerID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("provider %s not found", providerID)
	}

	if r.cache != nil {
		_ = r.cache.Del(ctx, availableCacheKey).Err()
	}
	return nil
}
