// Package orders records completed purchases.
package orders

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no order matches the lookup.
var ErrNotFound = errors.New("orders: order not found")

// Order is a completed purchase recorded from a checkout session.
type Order struct {
	ID            string    `firestore:"id" json:"id"`
	SessionID     string    `firestore:"sessionId" json:"sessionId"`
	ProductID     string    `firestore:"productId" json:"productId"`
	AmountTotal   int64     `firestore:"amountTotal" json:"amountTotal"`
	Currency      string    `firestore:"currency" json:"currency"`
	CustomerEmail string    `firestore:"customerEmail" json:"customerEmail"`
	Locale        string    `firestore:"locale" json:"locale"`
	PaidAt        time.Time `firestore:"paidAt" json:"paidAt"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
}

// Repository stores orders. Upsert is idempotent on SessionID so that webhook
// redeliveries do not create duplicates.
type Repository interface {
	Upsert(ctx context.Context, order Order) (Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (Order, error)
}
