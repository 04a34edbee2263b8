package i18n

import "testing"

func TestParseLocale(t *testing.T) {
	tests := []struct {
		segment string
		want    Locale
		ok      bool
	}{
		{"cs", LocaleCS, true},
		{"en", LocaleEN, true},
		{"EN", LocaleEN, true},
		{" cs ", LocaleCS, true},
		{"de", DefaultLocale, false},
		{"", DefaultLocale, false},
		{"english", DefaultLocale, false},
	}

	for _, tt := range tests {
		got, ok := ParseLocale(tt.segment)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseLocale(%q) = %v, %v; want %v, %v", tt.segment, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNegotiate(t *testing.T) {
	tests := []struct {
		header string
		want   Locale
	}{
		{"", LocaleCS},
		{"cs", LocaleCS},
		{"cs-CZ,cs;q=0.9,en;q=0.8", LocaleCS},
		{"en-US,en;q=0.9", LocaleEN},
		{"en-GB", LocaleEN},
		{"sk,cs;q=0.8", LocaleCS},
		{"de-DE", LocaleCS},
		{"not a header ;;;", LocaleCS},
	}

	for _, tt := range tests {
		if got := Negotiate(tt.header); got != tt.want {
			t.Fatalf("Negotiate(%q) = %v; want %v", tt.header, got, tt.want)
		}
	}
}

func TestBundleTranslatesWithFallback(t *testing.T) {
	bundle, err := NewBundle()
	if err != nil {
		t.Fatalf("NewBundle returned error: %v", err)
	}

	if got := bundle.T(LocaleCS, "success.heading"); got != "Děkujeme za nákup!" {
		t.Fatalf("unexpected cs translation %q", got)
	}
	if got := bundle.T(LocaleEN, "success.heading"); got != "Thank you for your purchase!" {
		t.Fatalf("unexpected en translation %q", got)
	}
	if got := bundle.T(LocaleEN, "no.such.key"); got != "no.such.key" {
		t.Fatalf("expected key passthrough, got %q", got)
	}
}

func TestBundleDictionariesCoverSameKeys(t *testing.T) {
	bundle, err := NewBundle()
	if err != nil {
		t.Fatalf("NewBundle returned error: %v", err)
	}

	cs := bundle.Dict(LocaleCS)
	en := bundle.Dict(LocaleEN)
	for key := range cs {
		if _, ok := en[key]; !ok {
			t.Fatalf("en dictionary missing key %q", key)
		}
	}
	for key := range en {
		if _, ok := cs[key]; !ok {
			t.Fatalf("cs dictionary missing key %q", key)
		}
	}
}
