package offer

import (
	"context"
	"time"

	"velora/models"
)

// MaxGenerations caps the escalation chain. Generation 1 targets the
// requested provider; expiry escalates once to the full available pool.
// An expired generation-2 offer is not rebroadcast again — the product has
// never defined a third tier, so we stop rather than invent one.
const MaxGenerations = 2

// OfferRequest is the input to Request: the provider the customer picked and
// the immutable booking terms.
type OfferRequest struct {
	BookingID  string // optional; assigned when empty
	CustomerID string // authenticated customer opening the booking
	ProviderID string
	Terms      models.Terms
	// ResponseWindow overrides the configured default when positive.
	ResponseWindow time.Duration
}

// ExpiryScheduler arms a one-shot expiry check at an offer's deadline.
// The periodic sweep remains the safety net, so scheduling failures degrade
// latency, not correctness.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, offerID string, deadline time.Time) error
}

// LifecycleService is the sole authority over offer state. Every transition
// goes through the store's compare-and-transition guard, so concurrent
// accepts, cancels and expiry ticks resolve to exactly one winner.
type LifecycleService interface {
	Request(ctx context.Context, req OfferRequest) (*models.OfferView, error)
	Accept(ctx context.Context, offerID, providerID string) (*models.OfferView, error)
	Cancel(ctx context.Context, offerID, customerID string) error
	GetOffer(ctx context.Context, offerID string) (*models.OfferView, error)
	BookingHistory(ctx context.Context, bookingID string) ([]models.Offer, error)

	// ExpireOffer runs the expiry check for one offer (deadline task target).
	ExpireOffer(ctx context.Context, offerID string) error
	// ExpireDue sweeps all waiting offers whose deadline has passed and
	// returns how many transitions this call won.
	ExpireDue(ctx context.Context) (int, error)
}
