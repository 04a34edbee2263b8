// Package catalog defines the storefront's purchasable products.
package catalog

import (
	"github.com/svatebni-denik/storefront/internal/i18n"
)

// Product describes one purchasable wedding diary edition.
type Product struct {
	ID          string
	PriceID     string
	Names       map[i18n.Locale]string
	Amount      int64
	Currency    string
	DownloadKey string
}

// Name returns the product name in the given locale, falling back to the default.
func (p Product) Name(locale i18n.Locale) string {
	if name, ok := p.Names[locale]; ok {
		return name
	}
	return p.Names[i18n.DefaultLocale]
}

const (
	// ProductBasic identifies the basic wedding diary edition.
	ProductBasic = "basic"
	// ProductPremium identifies the premium wedding diary edition.
	ProductPremium = "premium"
)

var products = map[string]Product{
	ProductBasic: {
		ID:      ProductBasic,
		PriceID: "price_1ST6XmEZ9QJo6JyeKEHn4qSm",
		Names: map[i18n.Locale]string{
			i18n.LocaleCS: "Svatební deník – Základní",
			i18n.LocaleEN: "Wedding Diary – Basic",
		},
		Amount:      99000,
		Currency:    "czk",
		DownloadKey: "svatebni-denik-zakladni.pdf",
	},
	ProductPremium: {
		ID:      ProductPremium,
		PriceID: "price_1ST6lJEZ9QJo6Jyey7YROR26",
		Names: map[i18n.Locale]string{
			i18n.LocaleCS: "Svatební deník – Prémiový",
			i18n.LocaleEN: "Wedding Diary – Premium",
		},
		Amount:      149000,
		Currency:    "czk",
		DownloadKey: "svatebni-denik-premiovy.pdf",
	},
}

var byPriceID = func() map[string]Product {
	m := make(map[string]Product, len(products))
	for _, p := range products {
		m[p.PriceID] = p
	}
	return m
}()

// ByID looks up a product by its identifier.
func ByID(id string) (Product, bool) {
	p, ok := products[id]
	return p, ok
}

// ByPriceID looks up a product by its payment provider price identifier.
func ByPriceID(priceID string) (Product, bool) {
	p, ok := byPriceID[priceID]
	return p, ok
}

// All returns every product in a stable order.
func All() []Product {
	return []Product{products[ProductBasic], products[ProductPremium]}
}
