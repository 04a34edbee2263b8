package payments

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v78"
)

// Webhook event types the storefront reacts to.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventPaymentFailed     = "payment_intent.payment_failed"
)

// Event is a parsed webhook notification.
type Event struct {
	ID   string
	Type string
	raw  json.RawMessage
}

// ParseEvent decodes a webhook payload into an Event.
func ParseEvent(payload []byte) (Event, error) {
	var evt stripe.Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return Event{}, fmt.Errorf("payments: parse webhook event: %w", err)
	}
	if evt.Type == "" {
		return Event{}, fmt.Errorf("payments: webhook event missing type")
	}
	return Event{
		ID:   evt.ID,
		Type: string(evt.Type),
		raw:  evt.Data.Raw,
	}, nil
}

// CheckoutSession extracts the checkout session carried by a
// checkout.session.completed event.
func (e Event) CheckoutSession() (SessionInfo, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(e.raw, &session); err != nil {
		return SessionInfo{}, fmt.Errorf("payments: parse checkout session: %w", err)
	}
	if session.ID == "" {
		return SessionInfo{}, fmt.Errorf("payments: webhook session missing id")
	}
	return sessionInfoFromStripe(&session), nil
}

// PaymentIntent extracts the payment intent id carried by a
// payment_intent.payment_failed event.
func (e Event) PaymentIntent() (string, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(e.raw, &intent); err != nil {
		return "", fmt.Errorf("payments: parse payment intent: %w", err)
	}
	return intent.ID, nil
}
