package routes

import (
	"testing"

	"github.com/svatebni-denik/storefront/internal/i18n"
)

func TestTableSlugRoundTrip(t *testing.T) {
	table := MustNewTable()

	for _, key := range Keys {
		for _, locale := range i18n.Locales {
			slug, ok := table.Slug(key, locale)
			if !ok {
				t.Fatalf("missing slug for %q in %s", key, locale)
			}
			resolved, ok := table.KeyForSlug(slug, locale)
			if !ok || resolved != key {
				t.Fatalf("KeyForSlug(%q, %s) = %q, %v; want %q", slug, locale, resolved, ok, key)
			}
		}
	}
}

func TestTableCzechSlugs(t *testing.T) {
	table := MustNewTable()

	tests := []struct {
		key  Key
		slug string
	}{
		{KeyContact, "kontakt"},
		{KeyAbout, "o-nas"},
		{KeyBasic, "zakladni"},
		{KeyPremium, "premium"},
		{KeySuccess, "uspech"},
		{KeyCancel, "zruseno"},
	}
	for _, tt := range tests {
		slug, _ := table.Slug(tt.key, i18n.LocaleCS)
		if slug != tt.slug {
			t.Fatalf("cs slug for %q = %q; want %q", tt.key, slug, tt.slug)
		}
	}
}

func TestTableUnknownSlug(t *testing.T) {
	table := MustNewTable()

	if _, ok := table.KeyForSlug("neexistuje", i18n.LocaleCS); ok {
		t.Fatal("expected unknown slug to miss")
	}
	// Slugs from the other locale do not resolve.
	if _, ok := table.KeyForSlug("kontakt", i18n.LocaleEN); ok {
		t.Fatal("expected cs slug to miss in en lookup")
	}
}

func TestLocalizedAndCanonicalPaths(t *testing.T) {
	table := MustNewTable()

	if got := table.LocalizedPath(KeyContact, i18n.LocaleCS); got != "/cs/kontakt" {
		t.Fatalf("unexpected localized path %q", got)
	}
	if got := table.CanonicalPath(KeyContact, i18n.LocaleCS); got != "/cs/contact" {
		t.Fatalf("unexpected canonical path %q", got)
	}
	if got := table.LocalizedPath(KeyHome, i18n.LocaleEN); got != "/en" {
		t.Fatalf("unexpected home path %q", got)
	}
}
