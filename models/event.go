package models

import "time"

// Offer event types consumed by the client-facing UI layer.
const (
	EventOfferCreated   = "offerCreated"
	EventOfferConfirmed = "offerConfirmed"
	EventOfferExpired   = "offerExpired"
	EventOfferCancelled = "offerCancelled"
)

// OfferEvent is published on the event stream whenever an offer is created
// or leaves the waiting state.
type OfferEvent struct {
	Type       string    `json:"type"`
	OfferID    string    `json:"offerId"`
	BookingID  string    `json:"bookingId"`
	Generation int       `json:"generation"`
	State      string    `json:"state"`
	Deadline   time.Time `json:"deadline"`
	AcceptedBy string    `json:"acceptedBy,omitempty"`
}
