package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/svatebni-denik/storefront/internal/catalog"
	"github.com/svatebni-denik/storefront/internal/i18n"
	"github.com/svatebni-denik/storefront/internal/payments"
	"github.com/svatebni-denik/storefront/internal/platform/httpx"
	"github.com/svatebni-denik/storefront/internal/platform/observability"
	"github.com/svatebni-denik/storefront/internal/routes"
)

type createCheckoutRequest struct {
	PriceID string `json:"priceId"`
	Locale  string `json:"locale"`
}

type createCheckoutResponse struct {
	URL string `json:"url"`
}

// CreateCheckout starts a payment for one of the catalog products and returns
// the provider's redirect URL.
func (a *API) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if a.deps.CheckoutLimiter.IsLimited(clientID(r)) {
		a.logger(r).Warn("checkout rate limited",
			zap.String("client", observability.SanitizeClientID(clientID(r))),
		)
		httpx.WriteError(ctx, w, httpx.NewError("Too many requests", "try again later", http.StatusTooManyRequests))
		return
	}

	var req createCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("Invalid request", "request body must be JSON", http.StatusBadRequest))
		return
	}

	product, ok := catalog.ByPriceID(req.PriceID)
	if !ok {
		a.logger(r).Warn("checkout rejected for unknown price")
		httpx.WriteError(ctx, w, httpx.NewError("Invalid product", "unknown price", http.StatusBadRequest))
		return
	}

	locale, ok := i18n.ParseLocale(req.Locale)
	if !ok {
		locale = i18n.DefaultLocale
	}

	session, err := a.deps.Provider.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		PriceID:        product.PriceID,
		ProductID:      product.ID,
		Locale:         locale.StripeLocale(),
		SuccessURL:     a.deps.BaseURL + a.deps.Table.LocalizedPath(routes.KeySuccess, locale) + "?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:      a.deps.BaseURL + a.deps.Table.LocalizedPath(routes.KeyCancel, locale),
		IdempotencyKey: ulid.Make().String(),
		Metadata:       map[string]string{"locale": locale.String()},
	})
	if err != nil {
		a.logger(r).Error("checkout session creation failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("Checkout failed", "unable to start checkout", http.StatusBadGateway))
		return
	}

	a.logger(r).Info("checkout session created",
		zap.String("product_id", product.ID),
		zap.String("locale", locale.String()),
	)

	httpx.WriteJSON(w, http.StatusOK, createCheckoutResponse{URL: session.RedirectURL})
}
