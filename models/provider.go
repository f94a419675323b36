package models

import "time"

// Provider is the slice of the provider profile this service reads: identity,
// availability and the push token used for offer notifications. Profile
// management lives with the client product; this core only flips and reads
// the availability flag.
type Provider struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	ProviderType string    `bson:"provider_type" json:"providerType"` // "therapist" or "place"
	IsAvailable  bool      `bson:"is_available" json:"isAvailable"`
	FCMToken     string    `bson:"fcm_token,omitempty" json:"-"`
	TokenHash    string    `bson:"token_hash,omitempty" json:"-"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}
