package handlers

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/svatebni-denik/storefront/internal/content"
	"github.com/svatebni-denik/storefront/internal/files"
	"github.com/svatebni-denik/storefront/internal/gates"
	"github.com/svatebni-denik/storefront/internal/i18n"
	"github.com/svatebni-denik/storefront/internal/jobs"
	"github.com/svatebni-denik/storefront/internal/orders"
	"github.com/svatebni-denik/storefront/internal/payments"
	"github.com/svatebni-denik/storefront/internal/ratelimit"
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

type stubFiles struct {
	openFn func(ctx context.Context, key string) (*files.Object, error)
}

func (s *stubFiles) Open(ctx context.Context, key string) (*files.Object, error) {
	return s.openFn(ctx, key)
}

func fileObject(contents, contentType string) *files.Object {
	return &files.Object{
		ReadCloser:  io.NopCloser(strings.NewReader(contents)),
		Size:        int64(len(contents)),
		ContentType: contentType,
	}
}

type recordingPublisher struct {
	messages []jobs.FulfillmentMessage
	err      error
}

func (p *recordingPublisher) PublishFulfillment(_ context.Context, msg jobs.FulfillmentMessage) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.messages = append(p.messages, msg)
	return "msg-1", nil
}

func blockedLimiter() ratelimit.Limiter {
	return ratelimit.LimiterFunc(func(string) bool { return true })
}

func paidSessionInfo(productID string, createdAt time.Time) payments.SessionInfo {
	return payments.SessionInfo{
		ID:            "cs_test_1",
		Status:        "complete",
		PaymentStatus: "paid",
		AmountTotal:   99000,
		Currency:      "czk",
		CustomerEmail: "nevesta@example.com",
		CreatedAt:     createdAt,
		Metadata:      map[string]string{"productId": productID, "locale": "cs"},
	}
}

type testEnv struct {
	api      *API
	pages    *Pages
	router   chi.Router
	provider *stubProvider
	orders   *orders.MemoryRepository
	pub      *recordingPublisher
	verifier *payments.SignatureVerifier
}

func newTestEnv(t *testing.T, mutate func(*APIDeps)) *testEnv {
	t.Helper()

	table, err := routes.NewTable()
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	bundle, err := i18n.NewBundle()
	if err != nil {
		t.Fatalf("NewBundle: %v", err)
	}
	contentStore, err := content.NewStore()
	if err != nil {
		t.Fatalf("content.NewStore: %v", err)
	}

	provider := &stubProvider{
		createFn: func(context.Context, payments.CheckoutRequest) (payments.CheckoutSession, error) {
			return payments.CheckoutSession{ID: "cs_test_1", RedirectURL: "https://checkout.stripe.com/pay/cs_test_1"}, nil
		},
		retrieveFn: func(context.Context, string) (payments.SessionInfo, error) {
			return paidSessionInfo("basic", time.Now().UTC()), nil
		},
	}

	verifier, err := payments.NewSignatureVerifier("whsec_test")
	if err != nil {
		t.Fatalf("NewSignatureVerifier: %v", err)
	}

	repo := orders.NewMemoryRepository()
	pub := &recordingPublisher{}

	deps := APIDeps{
		Provider:     provider,
		Verifier:     verifier,
		DownloadGate: gates.NewDownloadGate(provider),
		Orders:       repo,
		Files: &stubFiles{
			openFn: func(context.Context, string) (*files.Object, error) {
				return fileObject("%PDF-1.7", "application/pdf"), nil
			},
		},
		Publisher: pub,
		Table:     table,
		BaseURL:   "https://svatebni-denik.cz",
	}
	if mutate != nil {
		mutate(&deps)
	}

	api := NewAPI(deps)

	pages, err := NewPages(PageDeps{
		Bundle:               bundle,
		Content:              contentStore,
		SessionGate:          gates.NewSessionGate(provider),
		Table:                table,
		StripePublishableKey: "pk_test_123",
	})
	if err != nil {
		t.Fatalf("NewPages: %v", err)
	}

	router := NewRouter(RouterDeps{
		BaseURL: "https://svatebni-denik.cz",
		API:     api,
		Pages:   pages,
		Table:   table,
	})

	return &testEnv{
		api:      api,
		pages:    pages,
		router:   router,
		provider: provider,
		orders:   repo,
		pub:      pub,
		verifier: verifier,
	}
}
