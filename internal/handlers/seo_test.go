package handlers

import (
	"net/http"
	"strings"
	"testing"
)

func TestRobotsServed(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := getPath(t, env, "/robots.txt")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Disallow: /api/") {
		t.Fatalf("expected api disallow, got %q", body)
	}
	if !strings.Contains(body, "Sitemap: https://svatebni-denik.cz/sitemap.xml") {
		t.Fatalf("expected sitemap reference, got %q", body)
	}
}

func TestSitemapListsLocalizedPages(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := getPath(t, env, "/sitemap.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/xml") {
		t.Fatalf("unexpected content type %q", got)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"https://svatebni-denik.cz/cs",
		"https://svatebni-denik.cz/cs/kontakt",
		"https://svatebni-denik.cz/en/contact",
		"https://svatebni-denik.cz/cs/zakladni",
	} {
		if !strings.Contains(body, "<loc>"+want+"</loc>") {
			t.Fatalf("sitemap missing %s:\n%s", want, body)
		}
	}
	for _, unwanted := range []string{"/cs/uspech", "/en/success", "/cs/zruseno"} {
		if strings.Contains(body, unwanted) {
			t.Fatalf("sitemap lists transactional page %s", unwanted)
		}
	}
}
