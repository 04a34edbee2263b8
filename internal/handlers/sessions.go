package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/svatebni-denik/storefront/internal/payments"
	"github.com/svatebni-denik/storefront/internal/platform/httpx"
)

type validateSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type validateSessionResponse struct {
	Valid         bool   `json:"valid"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	AmountTotal   int64  `json:"amountTotal"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customerEmail,omitempty"`
}

// ValidateSession reports whether a checkout session represents a completed,
// paid purchase.
func (a *API) ValidateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if a.deps.ValidationLimiter.IsLimited(clientID(r)) {
		httpx.WriteError(ctx, w, httpx.NewError("Too many requests", "try again later", http.StatusTooManyRequests))
		return
	}

	var req validateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("Invalid request", "request body must be JSON", http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("Missing session", "sessionId is required", http.StatusBadRequest))
		return
	}

	session, err := a.deps.Provider.RetrieveSession(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, payments.ErrSessionNotFound) {
			httpx.WriteError(ctx, w, httpx.NewError("Session not found", "unknown checkout session", http.StatusNotFound))
			return
		}
		a.logger(r).Error("session validation failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("Validation failed", "unable to validate session", http.StatusBadGateway))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, validateSessionResponse{
		Valid:         session.Paid(),
		Status:        session.Status,
		PaymentStatus: session.PaymentStatus,
		AmountTotal:   session.AmountTotal,
		Currency:      session.Currency,
		CustomerEmail: session.CustomerEmail,
	})
}
