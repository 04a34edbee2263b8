package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	platformfs "github.com/svatebni-denik/storefront/internal/platform/firestore"
)

const ordersCollection = "orders"

// FirestoreRepository stores orders in Firestore, one document per checkout
// session.
type FirestoreRepository struct {
	provider *platformfs.Provider
	now      func() time.Time
}

// NewFirestoreRepository builds a Repository over the shared Firestore provider.
func NewFirestoreRepository(provider *platformfs.Provider) *FirestoreRepository {
	return &FirestoreRepository{
		provider: provider,
		now:      time.Now,
	}
}

// Upsert writes the order under its session ID. Redelivered webhooks overwrite
// the same document, keeping the original ID and creation time.
func (r *FirestoreRepository) Upsert(ctx context.Context, order Order) (Order, error) {
	sessionID := strings.TrimSpace(order.SessionID)
	if sessionID == "" {
		return Order{}, ErrNotFound
	}

	client, err := r.provider.Client(ctx)
	if err != nil {
		return Order{}, platformfs.WrapError("orders.upsert", err)
	}

	doc := client.Collection(ordersCollection).Doc(sessionID)

	snapshot, err := doc.Get(ctx)
	switch {
	case err == nil:
		var existing Order
		if decodeErr := snapshot.DataTo(&existing); decodeErr == nil {
			order.ID = existing.ID
			order.CreatedAt = existing.CreatedAt
		}
	case status.Code(err) == codes.NotFound:
		// First delivery for this session.
	default:
		return Order{}, platformfs.WrapError("orders.upsert", err)
	}

	if order.ID == "" {
		order.ID = ulid.Make().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = r.now().UTC()
	}

	if _, err := doc.Set(ctx, order); err != nil {
		return Order{}, platformfs.WrapError("orders.upsert", err)
	}
	return order, nil
}

// GetBySessionID returns the order recorded for a checkout session.
func (r *FirestoreRepository) GetBySessionID(ctx context.Context, sessionID string) (Order, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Order{}, ErrNotFound
	}

	client, err := r.provider.Client(ctx)
	if err != nil {
		return Order{}, platformfs.WrapError("orders.get", err)
	}

	snapshot, err := client.Collection(ordersCollection).Doc(sessionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Order{}, ErrNotFound
		}
		wrapped := platformfs.WrapError("orders.get", err)
		var repoErr *platformfs.Error
		if errors.As(wrapped, &repoErr) && repoErr.IsNotFound() {
			return Order{}, ErrNotFound
		}
		return Order{}, wrapped
	}

	var order Order
	if err := snapshot.DataTo(&order); err != nil {
		return Order{}, platformfs.WrapError("orders.get", err)
	}
	return order, nil
}
