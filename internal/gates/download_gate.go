package gates

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/svatebni-denik/storefront/internal/catalog"
	"github.com/svatebni-denik/storefront/internal/payments"
)

// DefaultDownloadWindow bounds how long after purchase a download stays valid.
const DefaultDownloadWindow = 30 * 24 * time.Hour

var (
	// ErrInvalidProduct is returned when the requested product is unknown.
	ErrInvalidProduct = errors.New("gates: invalid product")
	// ErrProductMismatch is returned when the session was paid for a different
	// product than the one requested.
	ErrProductMismatch = errors.New("gates: product mismatch")
	// ErrPaymentIncomplete is returned when the session is missing, unverifiable
	// or not paid.
	ErrPaymentIncomplete = errors.New("gates: payment not completed")
	// ErrLinkExpired is returned when the download window has passed or the
	// session carries no creation time to measure it from.
	ErrLinkExpired = errors.New("gates: download link expired")
)

// Grant describes an approved download.
type Grant struct {
	Product   catalog.Product
	Session   payments.SessionInfo
	ObjectKey string
}

// DownloadGate decides whether a purchased file may be served.
type DownloadGate struct {
	provider payments.Provider
	window   time.Duration
	now      func() time.Time
}

// DownloadGateOption customises DownloadGate construction.
type DownloadGateOption func(*DownloadGate)

// WithWindow overrides the download validity window.
func WithWindow(window time.Duration) DownloadGateOption {
	return func(g *DownloadGate) {
		if window > 0 {
			g.window = window
		}
	}
}

// WithNow overrides the time source, primarily for tests.
func WithNow(now func() time.Time) DownloadGateOption {
	return func(g *DownloadGate) {
		if now != nil {
			g.now = now
		}
	}
}

// NewDownloadGate builds a gate over the payment provider.
func NewDownloadGate(provider payments.Provider, opts ...DownloadGateOption) *DownloadGate {
	g := &DownloadGate{
		provider: provider,
		window:   DefaultDownloadWindow,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate checks that sessionID names a paid checkout for productID that is
// still within the download window, and returns the file grant.
func (g *DownloadGate) Evaluate(ctx context.Context, sessionID, productID string) (Grant, error) {
	product, ok := catalog.ByID(strings.TrimSpace(productID))
	if !ok {
		return Grant{}, ErrInvalidProduct
	}

	if strings.TrimSpace(sessionID) == "" {
		return Grant{}, ErrPaymentIncomplete
	}

	session, err := g.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		return Grant{}, ErrPaymentIncomplete
	}
	if !session.Paid() {
		return Grant{}, ErrPaymentIncomplete
	}

	// Without a creation time the window cannot be verified; fail closed.
	if session.CreatedAt.IsZero() || g.now().Sub(session.CreatedAt) > g.window {
		return Grant{}, ErrLinkExpired
	}

	// The session must have been created for this product.
	if purchased := session.Metadata["productId"]; purchased != product.ID {
		return Grant{}, ErrProductMismatch
	}

	return Grant{
		Product:   product,
		Session:   session,
		ObjectKey: product.DownloadKey,
	}, nil
}
