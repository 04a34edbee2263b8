package handlers

import (
	"net/http"
	"time"

	"github.com/svatebni-denik/storefront/internal/platform/httpx"
)

var startedAt = time.Now().UTC()

// health answers liveness and readiness probes. The storefront keeps its
// catalog and content in memory, so a process that serves traffic is ready.
func health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    time.Since(startedAt).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
