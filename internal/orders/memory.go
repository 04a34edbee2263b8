package orders

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// MemoryRepository is an in-process Repository used for development and tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	bySession map[string]Order
	now       func() time.Time
}

// NewMemoryRepository builds an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		bySession: make(map[string]Order),
		now:       time.Now,
	}
}

// Upsert stores the order keyed by its session ID. An existing order keeps its
// ID and creation time.
func (r *MemoryRepository) Upsert(_ context.Context, order Order) (Order, error) {
	if strings.TrimSpace(order.SessionID) == "" {
		return Order{}, ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.bySession[order.SessionID]; ok {
		order.ID = existing.ID
		order.CreatedAt = existing.CreatedAt
	} else {
		if order.ID == "" {
			order.ID = ulid.Make().String()
		}
		if order.CreatedAt.IsZero() {
			order.CreatedAt = r.now().UTC()
		}
	}

	r.bySession[order.SessionID] = order
	return order, nil
}

// GetBySessionID returns the order recorded for a checkout session.
func (r *MemoryRepository) GetBySessionID(_ context.Context, sessionID string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.bySession[sessionID]
	if !ok {
		return Order{}, ErrNotFound
	}
	return order, nil
}
