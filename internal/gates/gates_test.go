package gates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/svatebni-denik/storefront/internal/catalog"
	"github.com/svatebni-denik/storefront/internal/payments"
	"github.com/svatebni-denik/storefront/internal/routes"
)

type stubProvider struct {
	createFn   func(ctx context.Context, req payments.CheckoutRequest) (payments.CheckoutSession, error)
	retrieveFn func(ctx context.Context, sessionID string) (payments.SessionInfo, error)
}

func (s *stubProvider) CreateCheckoutSession(ctx context.Context, req payments.CheckoutRequest) (payments.CheckoutSession, error) {
	return s.createFn(ctx, req)
}

func (s *stubProvider) RetrieveSession(ctx context.Context, sessionID string) (payments.SessionInfo, error) {
	return s.retrieveFn(ctx, sessionID)
}

func paidSession(productID string, createdAt time.Time) payments.SessionInfo {
	return payments.SessionInfo{
		ID:            "cs_test_1",
		Status:        "complete",
		PaymentStatus: "paid",
		AmountTotal:   99000,
		Currency:      "czk",
		CreatedAt:     createdAt,
		Metadata:      map[string]string{"productId": productID},
	}
}

func TestSessionGateDeniesEmptySession(t *testing.T) {
	gate := NewSessionGate(&stubProvider{
		retrieveFn: func(context.Context, string) (payments.SessionInfo, error) {
			t.Fatal("provider should not be called")
			return payments.SessionInfo{}, nil
		},
	})

	decision := gate.Allow(context.Background(), "  ")
	if decision.Allowed {
		t.Fatal("expected denial")
	}
	if decision.RedirectKey != routes.KeyHome {
		t.Fatalf("expected redirect home, got %q", decision.RedirectKey)
	}
}

func TestSessionGateDeniesOnProviderError(t *testing.T) {
	gate := NewSessionGate(&stubProvider{
		retrieveFn: func(context.Context, string) (payments.SessionInfo, error) {
			return payments.SessionInfo{}, errors.New("stripe down")
		},
	})

	decision := gate.Allow(context.Background(), "cs_test_1")
	if decision.Allowed || decision.RedirectKey != routes.KeyCancel {
		t.Fatalf("expected redirect to cancel, got %+v", decision)
	}
}

func TestSessionGateDeniesUnpaidSession(t *testing.T) {
	gate := NewSessionGate(&stubProvider{
		retrieveFn: func(context.Context, string) (payments.SessionInfo, error) {
			return payments.SessionInfo{Status: "open", PaymentStatus: "unpaid"}, nil
		},
	})

	decision := gate.Allow(context.Background(), "cs_test_1")
	if decision.Allowed || decision.RedirectKey != routes.KeyCancel {
		t.Fatalf("expected redirect to cancel, got %+v", decision)
	}
}

func TestSessionGateAllowsPaidSession(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gate := NewSessionGate(&stubProvider{
		retrieveFn: func(_ context.Context, sessionID string) (payments.SessionInfo, error) {
			if sessionID != "cs_test_1" {
				t.Fatalf("unexpected session id %q", sessionID)
			}
			return paidSession(catalog.ProductBasic, now), nil
		},
	})

	decision := gate.Allow(context.Background(), "cs_test_1")
	if !decision.Allowed {
		t.Fatalf("expected allow, got %+v", decision)
	}
	if decision.Session.AmountTotal != 99000 {
		t.Fatalf("session not carried through: %+v", decision.Session)
	}
}

func TestDownloadGateGrantsPaidPurchase(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gate := NewDownloadGate(&stubProvider{
		retrieveFn: func(context.Context, string) (payments.SessionInfo, error) {
			return paidSession(catalog.ProductBasic, now.Add(-24*time.Hour)), nil
		},
	}, WithNow(func() time.Time { return now }))

	grant, err := gate.Evaluate(context.Background(), "cs_test_1", catalog.ProductBasic)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if grant.ObjectKey != "svatebni-denik-zakladni.pdf" {
		t.Fatalf("unexpected object key %q", grant.ObjectKey)
	}
	if grant.Product.ID != catalog.ProductBasic {
		t.Fatalf("unexpected product %q", grant.Product.ID)
	}
}

func TestDownloadGateRejectsUnknownProduct(t *testing.T) {
	gate := NewDownloadGate(&stubProvider{
		retrieveFn: func(context.Context, string) (payments.SessionInfo, error) {
			t.Fatal("provider should not be called")
			return payments.SessionInfo{}, nil
		},
	})

	if _, err := gate.Evaluate(context.Background(), "cs_test_1", "deluxe"); !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
}

func TestDownloadGateRejectsProductMismatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gate := NewDownloadGate(&stubProvider{
		retrieveFn: func(context.Context, string) (payments.SessionInfo, error) {
			return paidSession(catalog.ProductBasic, now), nil
		},
	}, WithNow(func() time.Time { return now }))

	if _, err := gate.Evaluate(context.Background(), "cs_test_1", catalog.ProductPremium); !errors.Is(err, ErrProductMismatch) {
		t.Fatalf("expected ErrProductMismatch, got %v", err)
	}
}

func TestDownloadGateRejectsSessionWithoutCreationTime(t *testing.T) {
	gate := NewDownloadGate(&stubProvider{
		retrieveFn: func(context.Context, string) (payments.SessionInfo, error) {
			return paidSession(catalog.ProductBasic, time.Time{}), nil
		},
	})

	if _, err := gate.Evaluate(context.Background(), "cs_test_1", catalog.ProductBasic); !errors.Is(err, ErrLinkExpired) {
		t.Fatalf("expected ErrLinkExpired for missing creation time, got %v", err)
	}
}

func TestDownloadGateRejectsUnpaidOrMissingSession(t *testing.T) {
	gate := NewDownloadGate(&stubProvider{
		retrieveFn: func(context.Context, string) (payments.SessionInfo, error) {
			return payments.SessionInfo{Status: "open", PaymentStatus: "unpaid"}, nil
		},
	})

	if _, err := gate.Evaluate(context.Background(), "cs_test_1", catalog.ProductBasic); !errors.Is(err, ErrPaymentIncomplete) {
		t.Fatalf("expected ErrPaymentIncomplete, got %v", err)
	}
	if _, err := gate.Evaluate(context.Background(), "", catalog.ProductBasic); !errors.Is(err, ErrPaymentIncomplete) {
		t.Fatalf("expected ErrPaymentIncomplete for empty session, got %v", err)
	}
}

func TestDownloadGateRejectsProviderFailure(t *testing.T) {
	gate := NewDownloadGate(&stubProvider{
		retrieveFn: func(context.Context, string) (payments.SessionInfo, error) {
			return payments.SessionInfo{}, payments.ErrSessionNotFound
		},
	})

	if _, err := gate.Evaluate(context.Background(), "cs_missing", catalog.ProductBasic); !errors.Is(err, ErrPaymentIncomplete) {
		t.Fatalf("expected ErrPaymentIncomplete, got %v", err)
	}
}

func TestDownloadGateExpiresAfterWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gate := NewDownloadGate(&stubProvider{
		retrieveFn: func(context.Context, string) (payments.SessionInfo, error) {
			return paidSession(catalog.ProductBasic, now.Add(-31*24*time.Hour)), nil
		},
	}, WithNow(func() time.Time { return now }))

	if _, err := gate.Evaluate(context.Background(), "cs_test_1", catalog.ProductBasic); !errors.Is(err, ErrLinkExpired) {
		t.Fatalf("expected ErrLinkExpired, got %v", err)
	}
}

func TestDownloadGateAllowsAtWindowEdge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gate := NewDownloadGate(&stubProvider{
		retrieveFn: func(context.Context, string) (payments.SessionInfo, error) {
			return paidSession(catalog.ProductBasic, now.Add(-30*24*time.Hour)), nil
		},
	}, WithNow(func() time.Time { return now }))

	if _, err := gate.Evaluate(context.Background(), "cs_test_1", catalog.ProductBasic); err != nil {
		t.Fatalf("expected grant at exactly 30 days, got %v", err)
	}
}
