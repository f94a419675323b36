package offerRepo

import (
	"context"
	"time"

	"velora/models"
)

// TransitionExtra carries the fields a state transition may set alongside the
// new state. Zero values are left untouched.
type TransitionExtra struct {
	AcceptedBy string
	AcceptedAt *time.Time
}

// OfferRepository is the persistence boundary for booking offers.
// CompareAndTransition is the only mutation primitive after Create; it must
// be linearizable per offer so racing accept/expiry/cancel resolve to exactly
// one winner.
type OfferRepository interface {
	// Create inserts a new offer. Returns ConflictError if the booking
	// already has a waiting offer or the (booking, generation) pair exists.
	Create(ctx context.Context, offer *models.Offer) error

	// GetByID returns the offer or NotFoundError.
	GetByID(ctx context.Context, offerID string) (*models.Offer, error)

	// GetWaitingByBooking returns the booking's current waiting offer, or
	// NotFoundError if none is live.
	GetWaitingByBooking(ctx context.Context, bookingID string) (*models.Offer, error)

	// NextGeneration returns 1 + the highest generation recorded for the
	// booking (1 for an unseen booking).
	NextGeneration(ctx context.Context, bookingID string) (int, error)

	// CompareAndTransition atomically moves the offer from fromState to
	// toState. Returns StaleStateError if the current state differs from
	// fromState, NotFoundError if the offer is absent.
	CompareAndTransition(ctx context.Context, offerID, fromState, toState string, extra TransitionExtra) error

	// ListDueWaiting returns waiting offers whose deadline is at or before
	// now, ordered by deadline ascending.
	ListDueWaiting(ctx context.Context, now time.Time, limit int64) ([]models.Offer, error)

	// ListByBooking returns every generation for the booking, oldest first.
	// Expired and cancelled generations are retained for the history view.
	ListByBooking(ctx context.Context, bookingID string) ([]models.Offer, error)
}
