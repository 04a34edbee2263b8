// Package middleware holds HTTP middleware specific to the storefront's
// locale-aware routing.
package middleware

import (
	"net/http"
	"strings"

	"github.com/svatebni-denik/storefront/internal/i18n"
	"github.com/svatebni-denik/storefront/internal/platform/requestctx"
	"github.com/svatebni-denik/storefront/internal/routes"
)

var excludedPrefixes = []string{
	"/api/",
	"/assets/",
}

var excludedPaths = map[string]struct{}{
	"/healthz":     {},
	"/readyz":      {},
	"/robots.txt":  {},
	"/sitemap.xml": {},
	"/favicon.ico": {},
}

// Localizer redirects requests without a locale prefix to their localized URL
// and rewrites localized slugs to the canonical paths handlers are mounted on.
type Localizer struct {
	table *routes.Table
}

// NewLocalizer builds a Localizer over the given route table.
func NewLocalizer(table *routes.Table) *Localizer {
	return &Localizer{table: table}
}

// Handler wraps next with locale resolution.
func (l *Localizer) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if isExcluded(path) {
			next.ServeHTTP(w, r)
			return
		}

		segments := splitPath(path)
		if len(segments) == 0 {
			l.redirect(w, r, i18n.Negotiate(r.Header.Get("Accept-Language")), path)
			return
		}

		locale, ok := i18n.ParseLocale(segments[0])
		if !ok {
			l.redirect(w, r, i18n.Negotiate(r.Header.Get("Accept-Language")), path)
			return
		}

		ctx := requestctx.WithLocale(r.Context(), string(locale))

		// Rewrite the current locale's slug to the canonical path so that the
		// router only mounts one handler per page. The public URL is untouched.
		if len(segments) == 2 {
			if key, found := l.table.KeyForSlug(segments[1], locale); found {
				r.URL.Path = l.table.CanonicalPath(key, locale)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (l *Localizer) redirect(w http.ResponseWriter, r *http.Request, locale i18n.Locale, path string) {
	target := "/" + locale.String()
	if path != "/" && path != "" {
		target += path
	}
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

func isExcluded(path string) bool {
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	if _, ok := excludedPaths[path]; ok {
		return true
	}

	// Static files are recognised by an extension in the last segment.
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		if strings.Contains(path[idx+1:], ".") {
			return true
		}
	}
	return false
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
