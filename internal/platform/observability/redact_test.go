package observability

import (
	"testing"

	"go.uber.org/zap"
)

func TestRedactStringScrubsEmails(t *testing.T) {
	in := "payment confirmation sent to jana.novakova@example.com today"
	out := RedactString(in)
	if out != "payment confirmation sent to [EMAIL_REDACTED] today" {
		t.Fatalf("unexpected redaction result: %q", out)
	}
}

func TestRedactValueSensitiveKey(t *testing.T) {
	cases := map[string]string{
		"customerEmail":    "jana@example.com",
		"session_id":       "cs_test_123",
		"stripe_signature": "t=1,v1=abc",
		"phone":            "+420 777 000 111",
	}
	for key, value := range cases {
		if got := RedactValue(key, value); got != "[REDACTED]" {
			t.Fatalf("expected key %q to be redacted, got %q", key, got)
		}
	}
}

func TestRedactValuePassthrough(t *testing.T) {
	if got := RedactValue("productId", "premium"); got != "premium" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestFieldsRedactsSensitiveEntries(t *testing.T) {
	fields := Fields(map[string]any{
		"productId":     "basic",
		"customerEmail": "jana@example.com",
		"note":          "contact at petr@example.org",
	})

	byKey := make(map[string]zap.Field, len(fields))
	for _, f := range fields {
		byKey[f.Key] = f
	}

	if byKey["customerEmail"].String != "[REDACTED]" {
		t.Fatalf("expected customerEmail redacted, got %q", byKey["customerEmail"].String)
	}
	if byKey["note"].String != "contact at [EMAIL_REDACTED]" {
		t.Fatalf("expected embedded email scrubbed, got %q", byKey["note"].String)
	}
	if byKey["productId"].String != "basic" {
		t.Fatalf("expected productId untouched, got %q", byKey["productId"].String)
	}
}
