package offer

import (
	"context"
	"errors"
	"fmt"
	"time"

	offerRepo "velora/database/repository/offer"
	providerRepo "velora/database/repository/provider"
	"velora/models"
	"velora/services/events"
	"velora/services/notification"
	"velora/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLifecycleService implements LifecycleService.
type DefaultLifecycleService struct {
	Repo      offerRepo.OfferRepository
	Registry  providerRepo.ProviderRegistry
	Notifier  notification.NotificationService
	Events    events.Publisher
	Scheduler ExpiryScheduler
	Logger    *zap.Logger

	// Response windows by booking type; deadlines are always stored absolute.
	ImmediateWindow time.Duration
	ScheduledWindow time.Duration

	// Clock is injected for tests; defaults to utils.SystemClock.
	Clock utils.Clock
}

func (s *DefaultLifecycleService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return utils.SystemClock()
}

func (s *DefaultLifecycleService) window(req OfferRequest) time.Duration {
	if req.ResponseWindow > 0 {
		return req.ResponseWindow
	}
	if req.Terms.BookingType == "scheduled" && s.ScheduledWindow > 0 {
		return s.ScheduledWindow
	}
	if s.ImmediateWindow > 0 {
		return s.ImmediateWindow
	}
	return 5 * time.Minute
}

func (s *DefaultLifecycleService) view(o *models.Offer) *models.OfferView {
	return &models.OfferView{
		Offer:            *o,
		RemainingSeconds: int64(utils.Remaining(o.Deadline, s.now()) / time.Second),
	}
}

// Request opens generation 1 of an offer to the provider the customer picked.
func (s *DefaultLifecycleService) Request(ctx context.Context, req OfferRequest) (*models.OfferView, error) {
	if req.ProviderID == "" {
		return nil, fmt.Errorf("request: provider id is required")
	}

	bookingID := req.BookingID
	if bookingID == "" {
		bookingID = uuid.New().String()
	}

	generation, err := s.Repo.NextGeneration(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if generation != 1 {
		// The booking already ran the flow once; cancelled and confirmed are
		// terminal for the bookingId, and escalation is the only path that
		// opens later generations. A customer who wants another round starts
		// over with a fresh bookingId.
		return nil, &offerRepo.ConflictError{BookingID: bookingID}
	}

	now := s.now()
	window := s.window(req)
	offer := &models.Offer{
		ID:                uuid.New().String(),
		BookingID:         bookingID,
		CustomerID:        req.CustomerID,
		Generation:        generation,
		TargetProviderIDs: []string{req.ProviderID},
		State:             models.OfferStateWaiting,
		CreatedAt:         now,
		Deadline:          now.Add(window),
		Terms:             req.Terms,
	}

	if err := s.Repo.Create(ctx, offer); err != nil {
		return nil, err
	}

	s.armOffer(ctx, offer)
	return s.view(offer), nil
}

// Accept records a provider's acceptance. Exactly one accept can win; every
// later attempt — and any attempt racing a lost expiry or cancel — gets
// offerNoLongerAvailable.
func (s *DefaultLifecycleService) Accept(ctx context.Context, offerID, providerID string) (*models.OfferView, error) {
	o, err := s.Repo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if !o.IsTargeted(providerID) {
		return nil, NewOfferNoLongerAvailable(offerID)
	}

	now := s.now()
	if !utils.IsLive(o.Deadline, now) {
		// Past the deadline the accept is too late even if the tick that
		// will expire the record has not run yet.
		return nil, NewOfferNoLongerAvailable(offerID)
	}

	extra := offerRepo.TransitionExtra{AcceptedBy: providerID, AcceptedAt: &now}
	err = s.Repo.CompareAndTransition(ctx, offerID, models.OfferStateWaiting, models.OfferStateConfirmed, extra)
	if err != nil {
		var stale *offerRepo.StaleStateError
		if errors.As(err, &stale) {
			return nil, NewOfferNoLongerAvailable(offerID)
		}
		return nil, err
	}

	o.State = models.OfferStateConfirmed
	o.AcceptedBy = providerID
	o.AcceptedAt = &now

	s.Logger.Info("offer confirmed",
		zap.String("offerId", o.ID),
		zap.String("bookingId", o.BookingID),
		zap.Int("generation", o.Generation),
		zap.String("acceptedBy", providerID))

	s.Events.Publish(ctx, models.OfferEvent{
		Type:       models.EventOfferConfirmed,
		OfferID:    o.ID,
		BookingID:  o.BookingID,
		Generation: o.Generation,
		State:      o.State,
		Deadline:   o.Deadline,
		AcceptedBy: providerID,
	})

	return s.view(o), nil
}

// Cancel is the customer withdrawing the request. Only the customer who
// opened the booking may cancel it. It goes through the same guard as accept
// and expiry, so a provider cannot accept an offer the customer just
// cancelled, and vice versa. No escalation follows.
func (s *DefaultLifecycleService) Cancel(ctx context.Context, offerID, customerID string) error {
	o, err := s.Repo.GetByID(ctx, offerID)
	if err != nil {
		return err
	}

	if o.CustomerID != "" && o.CustomerID != customerID {
		return NewOfferAccessDenied(offerID)
	}

	err = s.Repo.CompareAndTransition(ctx, offerID, models.OfferStateWaiting, models.OfferStateCancelled, offerRepo.TransitionExtra{})
	if err != nil {
		var stale *offerRepo.StaleStateError
		if errors.As(err, &stale) {
			return NewOfferNoLongerAvailable(offerID)
		}
		return err
	}

	s.Logger.Info("offer cancelled",
		zap.String("offerId", o.ID),
		zap.String("bookingId", o.BookingID),
		zap.Int("generation", o.Generation))

	s.Events.Publish(ctx, models.OfferEvent{
		Type:       models.EventOfferCancelled,
		OfferID:    o.ID,
		BookingID:  o.BookingID,
		Generation: o.Generation,
		State:      models.OfferStateCancelled,
		Deadline:   o.Deadline,
	})
	return nil
}

// GetOffer returns the offer with server-computed remaining time, so a
// reconnecting client recovers a correct countdown.
func (s *DefaultLifecycleService) GetOffer(ctx context.Context, offerID string) (*models.OfferView, error) {
	o, err := s.Repo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	return s.view(o), nil
}

// BookingHistory returns every generation for a booking, oldest first.
func (s *DefaultLifecycleService) BookingHistory(ctx context.Context, bookingID string) ([]models.Offer, error) {
	return s.Repo.ListByBooking(ctx, bookingID)
}

// armOffer runs the post-create side effects shared by Request and
// escalation: event, deadline task, provider pushes. None of them can fail
// the creation; the offer already exists.
func (s *DefaultLifecycleService) armOffer(ctx context.Context, o *models.Offer) {
	s.Logger.Info("offer created",
		zap.String("offerId", o.ID),
		zap.String("bookingId", o.BookingID),
		zap.Int("generation", o.Generation),
		zap.Int("targets", len(o.TargetProviderIDs)),
		zap.Time("deadline", o.Deadline))

	s.Events.Publish(ctx, models.OfferEvent{
		Type:       models.EventOfferCreated,
		OfferID:    o.ID,
		BookingID:  o.BookingID,
		Generation: o.Generation,
		State:      o.State,
		Deadline:   o.Deadline,
	})

	if s.Scheduler != nil {
		if err := s.Scheduler.ScheduleExpiry(ctx, o.ID, o.Deadline); err != nil {
			// The sweep still expires the offer; only latency suffers.
			s.Logger.Error("failed to schedule expiry task",
				zap.String("offerId", o.ID), zap.Error(err))
		}
	}

	for _, providerID := range o.TargetProviderIDs {
		if err := s.Notifier.NotifyOffer(ctx, providerID, o); err != nil {
			s.Logger.Warn("offer notification failed",
				zap.String("offerId", o.ID),
				zap.String("providerId", providerID),
				zap.Error(err))
		}
	}
}
