// Package payments integrates the storefront with its payment provider.
package payments

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when the provider does not know the session.
var ErrSessionNotFound = errors.New("payments: checkout session not found")

// CheckoutRequest describes a checkout session to be created.
type CheckoutRequest struct {
	PriceID        string
	ProductID      string
	Locale         string
	SuccessURL     string
	CancelURL      string
	IdempotencyKey string
	Metadata       map[string]string
}

// CheckoutSession is the provider's handle for a newly created checkout.
type CheckoutSession struct {
	ID          string
	RedirectURL string
	ExpiresAt   time.Time
}

// SessionInfo is the provider's view of an existing checkout session.
type SessionInfo struct {
	ID            string
	Status        string
	PaymentStatus string
	AmountTotal   int64
	Currency      string
	CustomerEmail string
	CreatedAt     time.Time
	Metadata      map[string]string
}

// Paid reports whether the session represents a completed, paid checkout.
func (s SessionInfo) Paid() bool {
	return s.Status == "complete" && s.PaymentStatus == "paid"
}

// Provider abstracts the payment backend.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (SessionInfo, error)
}
