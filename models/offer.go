package models

import "time"

// Offer state constants. Transitions are monotonic: an offer leaves Waiting
// exactly once and never returns.
const (
	OfferStateWaiting   = "waiting"
	OfferStateConfirmed = "confirmed"
	OfferStateExpired   = "expired"
	OfferStateCancelled = "cancelled"
)

// Terms are the immutable booking parameters copied from the original
// request. Identical across every generation of the same booking.
type Terms struct {
	DurationMinutes  int        `bson:"duration_minutes" json:"durationMinutes"` // 60, 90 or 120
	Price            float64    `bson:"price" json:"price"`
	Service          string     `bson:"service" json:"service"`          // e.g. "massage"
	BookingType      string     `bson:"booking_type" json:"bookingType"` // "immediate" or "scheduled"
	CustomerName     string     `bson:"customer_name" json:"customerName"`
	CustomerWhatsApp string     `bson:"customer_whatsapp,omitempty" json:"customerWhatsApp,omitempty"`
	HotelID          string     `bson:"hotel_id,omitempty" json:"hotelId,omitempty"`
	HotelRoomNumber  string     `bson:"hotel_room_number,omitempty" json:"hotelRoomNumber,omitempty"`
	ScheduledTime    *time.Time `bson:"scheduled_time,omitempty" json:"scheduledTime,omitempty"`
}

// Offer is one generation of a time-boxed request from a customer's booking
// to a set of providers. Generation 1 targets a single provider; an escalated
// generation targets every provider available at escalation time.
type Offer struct {
	ID                string    `bson:"id" json:"id"`
	BookingID         string    `bson:"booking_id" json:"bookingId"`
	CustomerID        string    `bson:"customer_id" json:"customerId"`
	Generation        int       `bson:"generation" json:"generation"`
	TargetProviderIDs []string  `bson:"target_provider_ids" json:"targetProviderIds"`
	State             string    `bson:"state" json:"state"`
	CreatedAt         time.Time `bson:"created_at" json:"createdAt"`
	// Deadline is absolute, always createdAt + response window, and never
	// recomputed or mutated. Remaining time is derived on every read.
	Deadline   time.Time  `bson:"deadline" json:"deadline"`
	AcceptedBy string     `bson:"accepted_by,omitempty" json:"acceptedBy,omitempty"`
	AcceptedAt *time.Time `bson:"accepted_at,omitempty" json:"acceptedAt,omitempty"`
	Terms      Terms      `bson:"terms" json:"terms"`
}

// IsTargeted reports whether the given provider belongs to this offer's
// target set.
func (o *Offer) IsTargeted(providerID string) bool {
	for _, id := range o.TargetProviderIDs {
		if id == providerID {
			return true
		}
	}
	return false
}

// OfferView is the read shape returned to clients: the stored offer plus the
// remaining response time computed server-side, so reconnecting clients
// recover a correct countdown.
type OfferView struct {
	Offer
	RemainingSeconds int64 `json:"remainingSeconds"`
}
