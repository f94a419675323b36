package offer

import (
	"context"
	"sort"
	"sync"
	"time"

	offerRepo "velora/database/repository/offer"
	"velora/models"
)

// fakeClock is a settable clock shared by a test and the service under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeOfferRepo is an in-memory OfferRepository with the same conditional
// update semantics the Mongo implementation gets from its indexes and
// filtered UpdateOne.
type fakeOfferRepo struct {
	mu     sync.Mutex
	offers map[string]*models.Offer
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: make(map[string]*models.Offer)}
}

func (f *fakeOfferRepo) Create(_ context.Context, o *models.Offer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.offers {
		if existing.BookingID != o.BookingID {
			continue
		}
		if existing.State == models.OfferStateWaiting {
			return &offerRepo.ConflictError{BookingID: o.BookingID}
		}
		if existing.Generation == o.Generation {
			return &offerRepo.ConflictError{BookingID: o.BookingID}
		}
	}
	cp := *o
	f.offers[o.ID] = &cp
	return nil
}

func (f *fakeOfferRepo) GetByID(_ context.Context, offerID string) (*models.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.offers[offerID]
	if !ok {
		return nil, &offerRepo.NotFoundError{OfferID: offerID}
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOfferRepo) GetWaitingByBooking(_ context.Context, bookingID string) (*models.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.offers {
		if o.BookingID == bookingID && o.State == models.OfferStateWaiting {
			cp := *o
			return &cp, nil
		}
	}
	return nil, &offerRepo.NotFoundError{OfferID: bookingID}
}

func (f *fakeOfferRepo) NextGeneration(_ context.Context, bookingID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := 0
	for _, o := range f.offers {
		if o.BookingID == bookingID && o.Generation > max {
			max = o.Generation
		}
	}
	return max + 1, nil
}

func (f *fakeOfferRepo) CompareAndTransition(_ context.Context, offerID, fromState, toState string, extra offerRepo.TransitionExtra) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.offers[offerID]
	if !ok {
		return &offerRepo.NotFoundError{OfferID: offerID}
	}
	if o.State != fromState {
		return &offerRepo.StaleStateError{OfferID: offerID, Expected: fromState, Actual: o.State}
	}
	o.State = toState
	if extra.AcceptedBy != "" {
		o.AcceptedBy = extra.AcceptedBy
	}
	if extra.AcceptedAt != nil {
		t := *extra.AcceptedAt
		o.AcceptedAt = &t
	}
	return nil
}

func (f *fakeOfferRepo) ListDueWaiting(_ context.Context, now time.Time, limit int64) ([]models.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []models.Offer
	for _, o := range f.offers {
		if o.State == models.OfferStateWaiting && !o.Deadline.After(now) {
			due = append(due, *o)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].Deadline.Before(due[j].Deadline) })
	if int64(len(due)) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (f *fakeOfferRepo) ListByBooking(_ context.Context, bookingID string) ([]models.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.Offer
	for _, o := range f.offers {
		if o.BookingID == bookingID {
			all = append(all, *o)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Generation < all[j].Generation })
	return all, nil
}

// fakeRegistry serves a fixed available-provider set. listFailures makes the
// next N ListAvailable calls fail, simulating a transient registry outage.
type fakeRegistry struct {
	mu           sync.Mutex
	available    []models.Provider
	listFailures int
}

func (f *fakeRegistry) GetByID(_ context.Context, providerID string) (*models.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.available {
		if f.available[i].ID == providerID {
			cp := f.available[i]
			return &cp, nil
		}
	}
	return &models.Provider{ID: providerID}, nil
}

func (f *fakeRegistry) ListAvailable(_ context.Context) ([]models.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listFailures > 0 {
		f.listFailures--
		return nil, context.DeadlineExceeded
	}
	out := make([]models.Provider, len(f.available))
	copy(out, f.available)
	return out, nil
}

func (f *fakeRegistry) SetAvailability(_ context.Context, providerID string, available bool) error {
	return nil
}

// fakeNotifier records which providers were pinged for which offers.
type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string // providerID
	fail  bool
	calls int
}

func (f *fakeNotifier) NotifyOffer(_ context.Context, providerID string, _ *models.Offer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return context.DeadlineExceeded
	}
	f.sent = append(f.sent, providerID)
	return nil
}

func (f *fakeNotifier) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	copy(out, f.sent)
	return out
}

// fakePublisher records the published event stream.
type fakePublisher struct {
	mu     sync.Mutex
	events []models.OfferEvent
}

func (f *fakePublisher) Publish(_ context.Context, event models.OfferEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakePublisher) byType(eventType string) []models.OfferEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.OfferEvent
	for _, e := range f.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// fakeScheduler records armed deadline tasks.
type fakeScheduler struct {
	mu    sync.Mutex
	armed map[string]time.Time
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{armed: make(map[string]time.Time)}
}

func (f *fakeScheduler) ScheduleExpiry(_ context.Context, offerID string, deadline time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.armed[offerID] = deadline
	return nil
}
