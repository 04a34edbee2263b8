package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/svatebni-denik/storefront/internal/i18n"
	"github.com/svatebni-denik/storefront/internal/routes"
)

// seo serves the crawler endpoints. The sitemap lists the public localized
// URLs; success and cancel pages are transactional and stay out of it.
type seo struct {
	baseURL string
	table   *routes.Table
}

var sitemapKeys = []routes.Key{
	routes.KeyHome,
	routes.KeyBasic,
	routes.KeyPremium,
	routes.KeyAbout,
	routes.KeyContact,
}

func newSEO(baseURL string, table *routes.Table) *seo {
	return &seo{baseURL: strings.TrimRight(baseURL, "/"), table: table}
}

func (s *seo) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	if s.baseURL != "" {
		fmt.Fprintf(&b, "\nSitemap: %s/sitemap.xml\n", s.baseURL)
	}
	_, _ = w.Write([]byte(b.String()))
}

func (s *seo) Sitemap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, key := range sitemapKeys {
		for _, locale := range i18n.Locales {
			fmt.Fprintf(&b, "  <url><loc>%s%s</loc></url>\n", s.baseURL, s.table.LocalizedPath(key, locale))
		}
	}
	b.WriteString("</urlset>\n")
	_, _ = w.Write([]byte(b.String()))
}
