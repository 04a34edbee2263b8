package handlers

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/svatebni-denik/storefront/internal/jobs"
	"github.com/svatebni-denik/storefront/internal/orders"
	"github.com/svatebni-denik/storefront/internal/payments"
	"github.com/svatebni-denik/storefront/internal/platform/httpx"
)

const maxWebhookBody = 1 << 20

// Webhook receives payment provider events. Completed checkouts are recorded
// as orders and queued for fulfillment; everything else is acknowledged.
func (a *API) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if a.deps.WebhookLimiter.IsLimited(clientID(r)) {
		httpx.WriteError(ctx, w, httpx.NewError("Too many requests", "try again later", http.StatusTooManyRequests))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("Invalid request", "unable to read body", http.StatusBadRequest))
		return
	}

	if err := a.deps.Verifier.Verify(body, r.Header.Get("Stripe-Signature")); err != nil {
		a.logger(r).Warn("webhook signature rejected", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("Invalid signature", "signature verification failed", http.StatusBadRequest))
		return
	}

	event, err := payments.ParseEvent(body)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("Invalid payload", "unable to parse event", http.StatusBadRequest))
		return
	}

	switch event.Type {
	case payments.EventCheckoutCompleted:
		if err := a.recordCompletedCheckout(r, event); err != nil {
			// Signal the provider to redeliver; the order upsert is idempotent.
			httpx.WriteError(ctx, w, httpx.NewError("Processing failed", "event could not be processed", http.StatusInternalServerError))
			return
		}
	case payments.EventPaymentFailed:
		intentID, err := event.PaymentIntent()
		if err == nil {
			a.logger(r).Warn("payment failed", zap.String("payment_intent", intentID))
		}
	default:
		a.logger(r).Debug("webhook event ignored", zap.String("type", event.Type))
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (a *API) recordCompletedCheckout(r *http.Request, event payments.Event) error {
	ctx := r.Context()

	session, err := event.CheckoutSession()
	if err != nil {
		a.logger(r).Error("webhook session parse failed", zap.Error(err))
		return err
	}

	if !session.Paid() {
		a.logger(r).Info("checkout completed without payment", zap.String("status", session.PaymentStatus))
		return nil
	}

	order, err := a.deps.Orders.Upsert(ctx, orders.Order{
		SessionID:     session.ID,
		ProductID:     session.Metadata["productId"],
		AmountTotal:   session.AmountTotal,
		Currency:      session.Currency,
		CustomerEmail: session.CustomerEmail,
		Locale:        session.Metadata["locale"],
		PaidAt:        session.CreatedAt,
	})
	if err != nil {
		a.logger(r).Error("order upsert failed", zap.Error(err))
		return err
	}

	if _, err := a.deps.Publisher.PublishFulfillment(ctx, jobs.FulfillmentMessage{
		OrderID:       order.ID,
		SessionID:     order.SessionID,
		ProductID:     order.ProductID,
		AmountTotal:   order.AmountTotal,
		Currency:      order.Currency,
		CustomerEmail: order.CustomerEmail,
		Locale:        order.Locale,
		PaidAt:        order.PaidAt,
	}); err != nil {
		// The order is recorded; fulfillment can be retried out of band.
		a.logger(r).Error("fulfillment publish failed", zap.Error(err), zap.String("order_id", order.ID))
	}

	a.logger(r).Info("order recorded",
		zap.String("order_id", order.ID),
		zap.String("product_id", order.ProductID),
	)
	return nil
}
