// Package gates holds the access decisions guarding the success page and
// purchased file downloads.
package gates

import (
	"context"
	"strings"

	"github.com/svatebni-denik/storefront/internal/payments"
	"github.com/svatebni-denik/storefront/internal/routes"
)

// SessionDecision is the outcome of checking a checkout session for the
// success page. When Allowed is false, RedirectKey names the page to send the
// visitor to instead.
type SessionDecision struct {
	Allowed     bool
	RedirectKey routes.Key
	Session     payments.SessionInfo
}

// SessionGate decides whether a visitor may see the order confirmation.
type SessionGate struct {
	provider payments.Provider
}

// NewSessionGate builds a gate over the payment provider.
func NewSessionGate(provider payments.Provider) *SessionGate {
	return &SessionGate{provider: provider}
}

// Allow verifies that sessionID names a completed, paid checkout. Visitors
// without a session go back to the home page; sessions that cannot be
// verified or are unpaid go to the cancellation page.
func (g *SessionGate) Allow(ctx context.Context, sessionID string) SessionDecision {
	if strings.TrimSpace(sessionID) == "" {
		return SessionDecision{RedirectKey: routes.KeyHome}
	}

	session, err := g.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		return SessionDecision{RedirectKey: routes.KeyCancel}
	}
	if !session.Paid() {
		return SessionDecision{RedirectKey: routes.KeyCancel}
	}

	return SessionDecision{Allowed: true, Session: session}
}
