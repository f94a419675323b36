package providerRepo

import (
	"context"

	"velora/models"
)

// ProviderRegistry is the availability registry the escalation dispatcher
// reads from. Provider profiles are owned by the client product; this service
// only reads availability and flips the flag on a provider's behalf.
type ProviderRegistry interface {
	// GetByID returns the provider record, or an error when absent.
	GetByID(ctx context.Context, providerID string) (*models.Provider, error)

	// ListAvailable returns every provider currently flagged available.
	ListAvailable(ctx context.Context) ([]models.Provider, error)

	// SetAvailability flips a provider's availability flag.
	SetAvailability(ctx context.Context, providerID string, available bool) error
}
