package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale identifies one of the supported storefront languages.
type Locale string

const (
	// LocaleCS is Czech, the default storefront language.
	LocaleCS Locale = "cs"
	// LocaleEN is English.
	LocaleEN Locale = "en"
)

// DefaultLocale is used when no locale can be determined from the request.
const DefaultLocale = LocaleCS

// Locales lists every supported locale in preference order.
var Locales = []Locale{LocaleCS, LocaleEN}

var matcher = language.NewMatcher([]language.Tag{
	language.Czech,
	language.English,
})

// String returns the locale as its URL path segment.
func (l Locale) String() string { return string(l) }

// IsValid reports whether the locale is one of the supported values.
func (l Locale) IsValid() bool {
	switch l {
	case LocaleCS, LocaleEN:
		return true
	}
	return false
}

// StripeLocale maps the locale to the value accepted by the payment provider.
func (l Locale) StripeLocale() string {
	switch l {
	case LocaleEN:
		return "en"
	default:
		return "cs"
	}
}

// ParseLocale converts a path segment into a Locale. The second return value
// reports whether the segment named a supported locale.
func ParseLocale(segment string) (Locale, bool) {
	switch strings.ToLower(strings.TrimSpace(segment)) {
	case "cs":
		return LocaleCS, true
	case "en":
		return LocaleEN, true
	}
	return DefaultLocale, false
}

// Negotiate selects the best supported locale for an Accept-Language header.
// Unparseable or empty headers yield the default locale.
func Negotiate(acceptLanguage string) Locale {
	if strings.TrimSpace(acceptLanguage) == "" {
		return DefaultLocale
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}

	_, index, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLocale
	}

	switch index {
	case 1:
		return LocaleEN
	default:
		return LocaleCS
	}
}
