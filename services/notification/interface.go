package notification

import (
	"context"
	"fmt"

	providerRepo "velora/database/repository/provider"
	"velora/models"
	"velora/utils"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService delivers offer pushes to providers. Delivery is
// fire-and-forget from the lifecycle engine's point of view: a failed push to
// one provider never blocks offer creation or delivery to the others.
type NotificationService interface {
	NotifyOffer(ctx context.Context, providerID string, offer *models.Offer) error
}

// DefaultNotificationService is the FCM-backed implementation.
type DefaultNotificationService struct {
	Registry providerRepo.ProviderRegistry
}

// NewDefaultNotificationService builds the FCM notification service.
func NewDefaultNotificationService(registry providerRepo.ProviderRegistry) (*DefaultNotificationService, error) {
	if registry == nil {
		return nil, fmt.Errorf("notification service initialization error: provider registry is nil")
	}
	return &DefaultNotificationService{Registry: registry}, nil
}

// NotifyOffer looks up the provider's FCM token and sends a high-priority
// push describing the offer.
func (s *DefaultNotificationService) NotifyOffer(ctx context.Context, providerID string, offer *models.Offer) error {
	p, err := s.Registry.GetByID(ctx, providerID)
	if err != nil {
		return fmt.Errorf("NotifyOffer: could not find provider %s: %w", providerID, err)
	}
	token := p.FCMToken
	if token == "" {
		return fmt.Errorf("NotifyOffer: provider %s has no FCM token", providerID)
	}

	title := "New booking request"
	body := fmt.Sprintf("%d min %s for %s — respond before it expires",
		offer.Terms.DurationMinutes, offer.Terms.Service, offer.Terms.CustomerName)
	if offer.Generation > 1 {
		title = "Booking request now open to you"
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: map[string]string{
			"type":       "offer",
			"role":       "provider",
			"offerId":    offer.ID,
			"bookingId":  offer.BookingID,
			"generation": fmt.Sprintf("%d", offer.Generation),
			"deadline":   offer.Deadline.Format("2006-01-02T15:04:05Z07:00"),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("NotifyOffer: failed to send FCM message to provider %s: %w", providerID, err)
	}
	return nil
}
