package offer

import (
	"context"
	"errors"

	offerRepo "velora/database/repository/offer"
	"velora/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// escalate rebroadcasts an expired offer to every currently-available
// provider under a fresh full response window. Terms and bookingId carry over
// unchanged; only the target set and generation differ.
func (s *DefaultLifecycleService) escalate(ctx context.Context, expired *models.Offer) error {
	if expired.Generation >= MaxGenerations {
		s.Logger.Info("offer expired at final generation, no further escalation",
			zap.String("bookingId", expired.BookingID),
			zap.Int("generation", expired.Generation))
		return nil
	}

	providers, err := s.Registry.ListAvailable(ctx)
	if err != nil {
		return err
	}
	targets := make([]string, 0, len(providers))
	for _, p := range providers {
		targets = append(targets, p.ID)
	}

	window := s.window(OfferRequest{Terms: expired.Terms})
	now := s.now()
	// The new generation is pinned to the expired one rather than computed
	// from the booking's history, so a late retry against an old expired
	// offer collides with the generation that already exists instead of
	// minting a spurious one.
	next := &models.Offer{
		ID:                uuid.New().String(),
		BookingID:         expired.BookingID,
		CustomerID:        expired.CustomerID,
		Generation:        expired.Generation + 1,
		TargetProviderIDs: targets,
		State:             models.OfferStateWaiting,
		CreatedAt:         now,
		Deadline:          now.Add(window),
		Terms:             expired.Terms,
	}

	if err := s.Repo.Create(ctx, next); err != nil {
		var conflict *offerRepo.ConflictError
		if errors.As(err, &conflict) {
			// Another instance escalated first.
			return nil
		}
		return err
	}

	// An empty target set still gets an offer: the customer sees "broadcast
	// in progress" while the registry fills in as providers come online.
	if len(targets) == 0 {
		s.Logger.Warn("escalated offer has no available providers",
			zap.String("bookingId", next.BookingID),
			zap.String("offerId", next.ID))
	}

	s.armOffer(ctx, next)
	return nil
}

var _ LifecycleService = (*DefaultLifecycleService)(nil)
