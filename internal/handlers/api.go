// Package handlers wires the storefront's HTTP surface.
package handlers

import (
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/svatebni-denik/storefront/internal/files"
	"github.com/svatebni-denik/storefront/internal/gates"
	"github.com/svatebni-denik/storefront/internal/jobs"
	"github.com/svatebni-denik/storefront/internal/orders"
	"github.com/svatebni-denik/storefront/internal/payments"
	"github.com/svatebni-denik/storefront/internal/platform/observability"
	"github.com/svatebni-denik/storefront/internal/ratelimit"
	"github.com/svatebni-denik/storefront/internal/routes"
)

// APIDeps carries the collaborators of the JSON API handlers.
type APIDeps struct {
	Logger   *zap.Logger
	Provider payments.Provider
	Verifier *payments.SignatureVerifier

	DownloadGate *gates.DownloadGate
	Orders       orders.Repository
	Files        files.Store
	Publisher    jobs.FulfillmentPublisher
	Table        *routes.Table

	BaseURL string

	CheckoutLimiter   ratelimit.Limiter
	ValidationLimiter ratelimit.Limiter
	WebhookLimiter    ratelimit.Limiter
}

// API groups the storefront's JSON endpoints.
type API struct {
	deps APIDeps
}

// NewAPI validates the dependencies and builds the handler set.
func NewAPI(deps APIDeps) *API {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Publisher == nil {
		deps.Publisher = jobs.NopFulfillmentPublisher{}
	}
	allowAll := ratelimit.LimiterFunc(func(string) bool { return false })
	if deps.CheckoutLimiter == nil {
		deps.CheckoutLimiter = allowAll
	}
	if deps.ValidationLimiter == nil {
		deps.ValidationLimiter = allowAll
	}
	if deps.WebhookLimiter == nil {
		deps.WebhookLimiter = allowAll
	}
	deps.BaseURL = strings.TrimRight(deps.BaseURL, "/")
	return &API{deps: deps}
}

func (a *API) logger(r *http.Request) *zap.Logger {
	if logger := observability.FromContext(r.Context()); logger != nil {
		return logger
	}
	return a.deps.Logger
}

// clientID identifies the caller for rate limiting. chi's RealIP middleware
// has already folded forwarding headers into RemoteAddr.
func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
