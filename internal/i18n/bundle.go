package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed locales/*.json
var localeFS embed.FS

// Bundle holds the translation dictionaries for every supported locale.
type Bundle struct {
	messages map[Locale]map[string]string
}

// NewBundle loads the embedded translation dictionaries.
func NewBundle() (*Bundle, error) {
	messages := make(map[Locale]map[string]string, len(Locales))
	for _, locale := range Locales {
		raw, err := localeFS.ReadFile(fmt.Sprintf("locales/%s.json", locale))
		if err != nil {
			return nil, fmt.Errorf("i18n: missing dictionary for %s: %w", locale, err)
		}
		dict := make(map[string]string)
		if err := json.Unmarshal(raw, &dict); err != nil {
			return nil, fmt.Errorf("i18n: invalid dictionary for %s: %w", locale, err)
		}
		messages[locale] = dict
	}
	return &Bundle{messages: messages}, nil
}

// T returns the translation for key in the given locale. Missing entries fall
// back to the default locale, then to the key itself.
func (b *Bundle) T(locale Locale, key string) string {
	if dict, ok := b.messages[locale]; ok {
		if msg, ok := dict[key]; ok {
			return msg
		}
	}
	if locale != DefaultLocale {
		if msg, ok := b.messages[DefaultLocale][key]; ok {
			return msg
		}
	}
	return key
}

// Dict returns the full dictionary for a locale. The returned map must not be modified.
func (b *Bundle) Dict(locale Locale) map[string]string {
	if dict, ok := b.messages[locale]; ok {
		return dict
	}
	return b.messages[DefaultLocale]
}
