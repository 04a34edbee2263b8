package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/svatebni-denik/storefront/internal/catalog"
	"github.com/svatebni-denik/storefront/internal/content"
	"github.com/svatebni-denik/storefront/internal/gates"
	"github.com/svatebni-denik/storefront/internal/i18n"
	"github.com/svatebni-denik/storefront/internal/payments"
	"github.com/svatebni-denik/storefront/internal/platform/observability"
	"github.com/svatebni-denik/storefront/internal/platform/requestctx"
	"github.com/svatebni-denik/storefront/internal/routes"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PageDeps carries the collaborators of the HTML page handlers.
type PageDeps struct {
	Logger      *zap.Logger
	Bundle      *i18n.Bundle
	Content     *content.Store
	SessionGate *gates.SessionGate
	Table       *routes.Table

	StripePublishableKey string
}

// Pages renders the localized storefront pages.
type Pages struct {
	deps      PageDeps
	templates *template.Template
}

// NewPages parses the embedded templates and builds the page handler set.
func NewPages(deps PageDeps) (*Pages, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Pages{deps: deps, templates: templates}, nil
}

// pageView is the data handed to every template.
type pageView struct {
	Locale    i18n.Locale
	AltLocale i18n.Locale
	Title     string

	Product  *productView
	Products []productView
	Page     *content.Page
	Session  *sessionView

	PublishableKey string

	bundle *i18n.Bundle
	table  *routes.Table
}

type productView struct {
	ID      string
	PriceID string
	Name    string
	Amount  int64
}

type sessionView struct {
	SessionID     string
	ProductID     string
	AmountTotal   int64
	Currency      string
	CustomerEmail string
}

// T translates a message key into the view's locale.
func (v pageView) T(key string) string {
	return v.bundle.T(v.Locale, key)
}

// Path builds the localized URL for a page key.
func (v pageView) Path(key string) string {
	return v.table.LocalizedPath(routes.Key(key), v.Locale)
}

// AltPath builds the URL for the same page in the other locale.
func (v pageView) AltPath(key string) string {
	return v.table.LocalizedPath(routes.Key(key), v.AltLocale)
}

func (p *Pages) newView(r *http.Request, titleKey string) pageView {
	locale, _ := i18n.ParseLocale(requestctx.Locale(r.Context()))
	alt := i18n.LocaleEN
	if locale == i18n.LocaleEN {
		alt = i18n.LocaleCS
	}
	return pageView{
		Locale:         locale,
		AltLocale:      alt,
		Title:          p.deps.Bundle.T(locale, titleKey),
		PublishableKey: p.deps.StripePublishableKey,
		bundle:         p.deps.Bundle,
		table:          p.deps.Table,
	}
}

func (p *Pages) logger(r *http.Request) *zap.Logger {
	if logger := observability.FromContext(r.Context()); logger != nil {
		return logger
	}
	return p.deps.Logger
}

func (p *Pages) render(w http.ResponseWriter, r *http.Request, name string, view pageView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.templates.ExecuteTemplate(w, name, view); err != nil {
		p.logger(r).Error("template render failed", zap.String("template", name), zap.Error(err))
	}
}

// Home renders the landing page with both products.
func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	view := p.newView(r, "site.title")
	for _, product := range catalog.All() {
		view.Products = append(view.Products, productView{
			ID:      product.ID,
			PriceID: product.PriceID,
			Name:    product.Name(view.Locale),
			Amount:  product.Amount / 100,
		})
	}
	p.render(w, r, "home.html", view)
}

// Product renders the detail page for one catalog product.
func (p *Pages) Product(productID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, ok := catalog.ByID(productID)
		if !ok {
			http.NotFound(w, r)
			return
		}
		view := p.newView(r, "product."+productID+".name")
		view.Product = &productView{
			ID:      product.ID,
			PriceID: product.PriceID,
			Name:    product.Name(view.Locale),
			Amount:  product.Amount / 100,
		}
		p.render(w, r, "product.html", view)
	}
}

// ContentPage renders a static markdown-backed page.
func (p *Pages) ContentPage(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := p.newView(r, "site.title")
		page, ok := p.deps.Content.Page(slug, view.Locale)
		if !ok {
			http.NotFound(w, r)
			return
		}
		view.Title = page.Title
		view.Page = &page
		p.render(w, r, "content.html", view)
	}
}

// Success renders the order confirmation. Visitors without a verified paid
// session are redirected away.
func (p *Pages) Success(w http.ResponseWriter, r *http.Request) {
	view := p.newView(r, "success.heading")

	sessionID := r.URL.Query().Get("session_id")
	decision := p.deps.SessionGate.Allow(r.Context(), sessionID)
	if !decision.Allowed {
		p.logger(r).Warn("success page denied",
			zap.String("client", observability.SanitizeClientID(clientID(r))),
			zap.String("redirect", string(decision.RedirectKey)),
		)
		http.Redirect(w, r, p.deps.Table.LocalizedPath(decision.RedirectKey, view.Locale), http.StatusSeeOther)
		return
	}

	view.Session = newSessionView(decision.Session)
	p.render(w, r, "success.html", view)
}

// Cancel renders the payment cancellation page.
func (p *Pages) Cancel(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, "cancel.html", p.newView(r, "cancel.heading"))
}

func newSessionView(session payments.SessionInfo) *sessionView {
	return &sessionView{
		SessionID:     session.ID,
		ProductID:     session.Metadata["productId"],
		AmountTotal:   session.AmountTotal / 100,
		Currency:      session.Currency,
		CustomerEmail: session.CustomerEmail,
	}
}
