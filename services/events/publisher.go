package events

import (
	"context"
	"encoding/json"

	"velora/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// OfferEventsChannel is the pub/sub channel the UI layer subscribes to.
const OfferEventsChannel = "offer.events"

// Publisher pushes offer lifecycle events to the client-facing stream.
// Publishing is fire-and-forget: a dropped event never blocks or rolls back
// a state transition.
type Publisher interface {
	Publish(ctx context.Context, event models.OfferEvent)
}

// RedisPublisher publishes events on a Redis pub/sub channel.
type RedisPublisher struct {
	Client *redis.Client
	Logger *zap.Logger
}

// NewRedisPublisher creates a publisher on the given Redis client.
func NewRedisPublisher(client *redis.Client, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{Client: client, Logger: logger}
}

// Publish serializes the event and publishes it. Failures are logged only.
func (p *RedisPublisher) Publish(ctx context.Context, event models.OfferEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.Logger.Error("failed to marshal offer event",
			zap.String("type", event.Type),
			zap.String("offerId", event.OfferID),
			zap.Error(err))
		return
	}
	if err := p.Client.Publish(ctx, OfferEventsChannel, payload).Err(); err != nil {
		p.Logger.Error("failed to publish offer event",
			zap.String("type", event.Type),
			zap.String("offerId", event.OfferID),
			zap.Error(err))
	}
}
