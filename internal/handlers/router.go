package handlers

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/svatebni-denik/storefront/internal/i18n"
	localemw "github.com/svatebni-denik/storefront/internal/middleware"
	"github.com/svatebni-denik/storefront/internal/platform/httpx"
	"github.com/svatebni-denik/storefront/internal/platform/observability"
	"github.com/svatebni-denik/storefront/internal/routes"
)

//go:embed assets
var assetsFS embed.FS

const defaultTimeout = 60 * time.Second

// RouterDeps bundles everything the HTTP router serves.
type RouterDeps struct {
	Logger    *zap.Logger
	ProjectID string
	BaseURL   string

	API   *API
	Pages *Pages
	Table *routes.Table
}

// NewRouter constructs the chi router with shared middleware, the JSON API and
// the localized page tree.
func NewRouter(deps RouterDeps) chi.Router {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.InjectLoggerMiddleware(deps.Logger))
	r.Use(observability.TraceMiddleware(deps.ProjectID))
	r.Use(observability.RecoveryMiddleware(deps.Logger))
	r.Use(observability.RequestLoggerMiddleware(deps.ProjectID))
	r.Use(middleware.Timeout(defaultTimeout))

	// Runs before routing so that slug rewrites and locale redirects apply to
	// every page path. API, assets and probes are excluded inside.
	r.Use(localemw.NewLocalizer(deps.Table).Handler)

	r.Get("/healthz", health)
	r.Get("/readyz", health)

	crawlers := newSEO(deps.BaseURL, deps.Table)
	r.Get("/robots.txt", crawlers.Robots)
	r.Get("/sitemap.xml", crawlers.Sitemap)

	assets, err := fs.Sub(assetsFS, "assets")
	if err == nil {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assets))))
	}

	r.Route("/api", func(api chi.Router) {
		api.NotFound(func(w http.ResponseWriter, req *http.Request) {
			httpx.WriteError(req.Context(), w, httpx.NewError("Not found", fmt.Sprintf("no route for %s", req.URL.Path), http.StatusNotFound))
		})
		api.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
			httpx.WriteError(req.Context(), w, httpx.NewError("Method not allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed))
		})

		api.Post("/create-checkout", deps.API.CreateCheckout)
		api.Post("/validate-session", deps.API.ValidateSession)
		api.Get("/download", deps.API.Download)
		api.Post("/webhook", deps.API.Webhook)
	})

	for _, locale := range i18n.Locales {
		r.Get(deps.Table.CanonicalPath(routes.KeyHome, locale), deps.Pages.Home)
		r.Get(deps.Table.CanonicalPath(routes.KeyBasic, locale), deps.Pages.Product("basic"))
		r.Get(deps.Table.CanonicalPath(routes.KeyPremium, locale), deps.Pages.Product("premium"))
		r.Get(deps.Table.CanonicalPath(routes.KeyAbout, locale), deps.Pages.ContentPage("about"))
		r.Get(deps.Table.CanonicalPath(routes.KeyContact, locale), deps.Pages.ContentPage("contact"))
		r.Get(deps.Table.CanonicalPath(routes.KeySuccess, locale), deps.Pages.Success)
		r.Get(deps.Table.CanonicalPath(routes.KeyCancel, locale), deps.Pages.Cancel)
	}

	return r
}
