package catalog

import (
	"testing"

	"github.com/svatebni-denik/storefront/internal/i18n"
)

func TestByID(t *testing.T) {
	basic, ok := ByID(ProductBasic)
	if !ok {
		t.Fatal("basic product not found")
	}
	if basic.Amount != 99000 || basic.Currency != "czk" {
		t.Fatalf("unexpected basic price %d %s", basic.Amount, basic.Currency)
	}

	premium, ok := ByID(ProductPremium)
	if !ok {
		t.Fatal("premium product not found")
	}
	if premium.Amount != 149000 {
		t.Fatalf("unexpected premium price %d", premium.Amount)
	}

	if _, ok := ByID("deluxe"); ok {
		t.Fatal("unknown product should not resolve")
	}
}

func TestByPriceID(t *testing.T) {
	for _, p := range All() {
		resolved, ok := ByPriceID(p.PriceID)
		if !ok || resolved.ID != p.ID {
			t.Fatalf("ByPriceID(%q) = %q, %v; want %q", p.PriceID, resolved.ID, ok, p.ID)
		}
	}
	if _, ok := ByPriceID("price_unknown"); ok {
		t.Fatal("unknown price should not resolve")
	}
}

func TestNameFallsBackToDefaultLocale(t *testing.T) {
	basic, _ := ByID(ProductBasic)
	if got := basic.Name(i18n.LocaleEN); got != "Wedding Diary – Basic" {
		t.Fatalf("unexpected en name %q", got)
	}
	if got := basic.Name(i18n.Locale("de")); got != "Svatební deník – Základní" {
		t.Fatalf("expected default locale fallback, got %q", got)
	}
}
