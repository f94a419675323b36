package offer

import "fmt"

// OfferError is a caller-facing lifecycle error with a stable code.
type OfferError struct {
	Code    string
	Message string
}

func (e *OfferError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOfferAccessDenied marks a caller acting on another customer's offer.
const CodeOfferAccessDenied = "offerAccessDenied"

// NewOfferAccessDenied reports a cancel attempt by a customer who does not
// own the booking behind the offer.
func NewOfferAccessDenied(offerID string) error {
	return &OfferError{
		Code:    CodeOfferAccessDenied,
		Message: fmt.Sprintf("offer %s belongs to another customer", offerID),
	}
}

// NewOfferNoLongerAvailable reports an accept or cancel that lost the race:
// the offer already left the waiting state. Surfaced to providers as
// "too late".
func NewOfferNoLongerAvailable(offerID string) error {
	return &OfferError{
		Code:    "offerNoLongerAvailable",
		Message: fmt.Sprintf("offer %s is no longer available", offerID),
	}
}
