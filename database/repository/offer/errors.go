package offerRepo

import "fmt"

// ConflictError means the booking already has an offer that blocks creating
// another: a waiting offer, the same generation created twice, or a resolved
// history that only a fresh bookingId can restart.
type ConflictError struct {
	BookingID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking %s already has an offer", e.BookingID)
}

// NotFoundError means the referenced offer does not exist.
type NotFoundError struct {
	OfferID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("offer %s not found", e.OfferID)
}

// StaleStateError means a compare-and-transition guard failed because the
// offer already left the expected state. Always recoverable by re-reading;
// never surfaced to users as a hard failure.
type StaleStateError struct {
	OfferID  string
	Expected string
	Actual   string
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("offer %s is %s, expected %s", e.OfferID, e.Actual, e.Expected)
}
