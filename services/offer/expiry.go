package offer

import (
	"context"
	"errors"

	offerRepo "velora/database/repository/offer"
	"velora/models"
	"velora/utils"

	"go.uber.org/zap"
)

// sweepBatchSize bounds a single sweep pass. Leftovers are picked up by the
// next tick.
const sweepBatchSize = 100

// ExpireOffer runs the expiry check for a single offer. Safe to call any
// number of times from any instance: only the call that wins the
// waiting→expired transition escalates, every other call is a no-op — except
// a retry that finds the offer already expired without its next generation,
// which re-attempts the rebroadcast (see expireOne).
func (s *DefaultLifecycleService) ExpireOffer(ctx context.Context, offerID string) error {
	o, err := s.Repo.GetByID(ctx, offerID)
	if err != nil {
		var notFound *offerRepo.NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	_, err = s.expireOne(ctx, o)
	return err
}

// ExpireDue sweeps every waiting offer whose deadline has passed and returns
// how many waiting→expired transitions this call won. Correctness does not
// depend on how often this runs; a missed tick self-corrects on the next one.
func (s *DefaultLifecycleService) ExpireDue(ctx context.Context) (int, error) {
	due, err := s.Repo.ListDueWaiting(ctx, s.now(), sweepBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range due {
		won, err := s.expireOne(ctx, &due[i])
		if err != nil {
			s.Logger.Error("expiry sweep failed for offer",
				zap.String("offerId", due[i].ID), zap.Error(err))
			continue
		}
		if won {
			expired++
		}
	}
	return expired, nil
}

// expireOne reports whether this call won the waiting→expired transition.
// An offer found already expired still gets an escalation attempt: a crash
// or transient failure between winning the transition and creating the next
// generation would otherwise strand the booking, since the sweep never
// revisits non-waiting offers. escalate is idempotent, so re-running it on
// a retry is safe.
func (s *DefaultLifecycleService) expireOne(ctx context.Context, o *models.Offer) (bool, error) {
	switch o.State {
	case models.OfferStateWaiting:
		// fall through to the transition below
	case models.OfferStateExpired:
		return false, s.escalate(ctx, o)
	default:
		return false, nil
	}

	if utils.IsLive(o.Deadline, s.now()) {
		// Deadline task fired early or the sweep read a fresh offer.
		return false, nil
	}

	err := s.Repo.CompareAndTransition(ctx, o.ID, models.OfferStateWaiting, models.OfferStateExpired, offerRepo.TransitionExtra{})
	if err != nil {
		var stale *offerRepo.StaleStateError
		if errors.As(err, &stale) {
			// An accept, cancel or concurrent tick already resolved it.
			return false, nil
		}
		return false, err
	}

	s.Logger.Info("offer expired",
		zap.String("offerId", o.ID),
		zap.String("bookingId", o.BookingID),
		zap.Int("generation", o.Generation))

	s.Events.Publish(ctx, models.OfferEvent{
		Type:       models.EventOfferExpired,
		OfferID:    o.ID,
		BookingID:  o.BookingID,
		Generation: o.Generation,
		State:      models.OfferStateExpired,
		Deadline:   o.Deadline,
	})

	// Winning the transition above makes this the primary escalation for the
	// (booking, generation) pair; an error here surfaces to the task queue so
	// the retry path above can finish the rebroadcast.
	return true, s.escalate(ctx, o)
}
