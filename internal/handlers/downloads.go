package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/svatebni-denik/storefront/internal/files"
	"github.com/svatebni-denik/storefront/internal/gates"
	"github.com/svatebni-denik/storefront/internal/platform/httpx"
	"github.com/svatebni-denik/storefront/internal/platform/observability"
)

// Download streams a purchased file after verifying payment, product match and
// the download window.
func (a *API) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID := r.URL.Query().Get("session")
	productID := r.URL.Query().Get("product")

	grant, err := a.deps.DownloadGate.Evaluate(ctx, sessionID, productID)
	if err != nil {
		deny := a.logger(r).With(
			zap.String("client", observability.SanitizeClientID(clientID(r))),
			zap.String("product", productID),
		)
		switch {
		case errors.Is(err, gates.ErrInvalidProduct):
			deny.Warn("download denied: unknown product")
			httpx.WriteError(ctx, w, httpx.NewError("Invalid product", "unknown product", http.StatusBadRequest))
		case errors.Is(err, gates.ErrProductMismatch):
			deny.Warn("download denied: product mismatch")
			httpx.WriteError(ctx, w, httpx.NewError("Invalid product", "product does not match this purchase", http.StatusForbidden))
		case errors.Is(err, gates.ErrLinkExpired):
			deny.Warn("download denied: link expired")
			httpx.WriteError(ctx, w, httpx.NewError("Download link expired", "downloads are available for 30 days after purchase", http.StatusForbidden))
		case errors.Is(err, gates.ErrPaymentIncomplete):
			deny.Warn("download denied: payment not completed")
			httpx.WriteError(ctx, w, httpx.NewError("Payment not completed", "no completed payment found for this session", http.StatusForbidden))
		default:
			deny.Error("download gate failure", zap.Error(err))
			httpx.WriteError(ctx, w, httpx.NewError("Download failed", "unable to verify purchase", http.StatusInternalServerError))
		}
		return
	}

	object, err := a.deps.Files.Open(ctx, grant.ObjectKey)
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			a.logger(r).Error("purchased file missing", zap.String("object", grant.ObjectKey))
		} else {
			a.logger(r).Error("file open failed", zap.Error(err))
		}
		httpx.WriteError(ctx, w, httpx.NewError("Download failed", "file is temporarily unavailable", http.StatusInternalServerError))
		return
	}
	defer object.Close()

	a.logger(r).Info("download granted", zap.String("product_id", grant.Product.ID))

	w.Header().Set("Content-Type", object.ContentType)
	if object.Size > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", object.Size))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", grant.ObjectKey))
	w.Header().Set("Cache-Control", "private, no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("X-Robots-Tag", "noindex, nofollow")

	if _, err := io.Copy(w, object); err != nil {
		a.logger(r).Warn("download interrupted", zap.Error(err))
	}
}
