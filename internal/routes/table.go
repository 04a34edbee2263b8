// Package routes maps canonical page keys to their locale-specific URL slugs.
package routes

import (
	"fmt"

	"github.com/svatebni-denik/storefront/internal/i18n"
)

// Key names a storefront page independent of locale.
type Key string

const (
	KeyHome    Key = ""
	KeyContact Key = "contact"
	KeyAbout   Key = "about"
	KeyBasic   Key = "basic"
	KeyPremium Key = "premium"
	KeySuccess Key = "success"
	KeyCancel  Key = "cancel"
)

// Keys lists every routable page key except the home page.
var Keys = []Key{KeyContact, KeyAbout, KeyBasic, KeyPremium, KeySuccess, KeyCancel}

// Table resolves between canonical keys and localized slugs.
type Table struct {
	slugs  map[Key]map[i18n.Locale]string
	lookup map[i18n.Locale]map[string]Key
}

// NewTable builds the storefront route table. It fails when a key lacks a slug
// for any locale or two keys share a slug within a locale.
func NewTable() (*Table, error) {
	slugs := map[Key]map[i18n.Locale]string{
		KeyContact: {i18n.LocaleCS: "kontakt", i18n.LocaleEN: "contact"},
		KeyAbout:   {i18n.LocaleCS: "o-nas", i18n.LocaleEN: "about"},
		KeyBasic:   {i18n.LocaleCS: "zakladni", i18n.LocaleEN: "basic"},
		KeyPremium: {i18n.LocaleCS: "premium", i18n.LocaleEN: "premium"},
		KeySuccess: {i18n.LocaleCS: "uspech", i18n.LocaleEN: "success"},
		KeyCancel:  {i18n.LocaleCS: "zruseno", i18n.LocaleEN: "cancel"},
	}

	lookup := make(map[i18n.Locale]map[string]Key, len(i18n.Locales))
	for _, locale := range i18n.Locales {
		lookup[locale] = make(map[string]Key, len(slugs))
	}

	for _, key := range Keys {
		localized, ok := slugs[key]
		if !ok {
			return nil, fmt.Errorf("routes: key %q has no slugs", key)
		}
		for _, locale := range i18n.Locales {
			slug, ok := localized[locale]
			if !ok || slug == "" {
				return nil, fmt.Errorf("routes: key %q missing slug for locale %s", key, locale)
			}
			if existing, dup := lookup[locale][slug]; dup {
				return nil, fmt.Errorf("routes: slug %q in locale %s maps to both %q and %q", slug, locale, existing, key)
			}
			lookup[locale][slug] = key
		}
	}

	return &Table{slugs: slugs, lookup: lookup}, nil
}

// MustNewTable builds the route table and panics on an inconsistent definition.
func MustNewTable() *Table {
	table, err := NewTable()
	if err != nil {
		panic(err)
	}
	return table
}

// Slug returns the locale-specific slug for a key.
func (t *Table) Slug(key Key, locale i18n.Locale) (string, bool) {
	localized, ok := t.slugs[key]
	if !ok {
		return "", false
	}
	slug, ok := localized[locale]
	return slug, ok
}

// KeyForSlug resolves a slug within a locale back to its canonical key.
func (t *Table) KeyForSlug(slug string, locale i18n.Locale) (Key, bool) {
	byLocale, ok := t.lookup[locale]
	if !ok {
		return "", false
	}
	key, ok := byLocale[slug]
	return key, ok
}

// LocalizedPath builds the public URL path for a page in the given locale.
func (t *Table) LocalizedPath(key Key, locale i18n.Locale) string {
	if key == KeyHome {
		return "/" + locale.String()
	}
	slug, ok := t.Slug(key, locale)
	if !ok {
		return "/" + locale.String()
	}
	return "/" + locale.String() + "/" + slug
}

// CanonicalPath builds the internal path handlers are mounted on.
func (t *Table) CanonicalPath(key Key, locale i18n.Locale) string {
	if key == KeyHome {
		return "/" + locale.String()
	}
	return "/" + locale.String() + "/" + string(key)
}
