package models

// OfferExpirePayload is the payload of a queued per-offer expiry task.
type OfferExpirePayload struct {
	OfferID string `json:"offerId"`
}
