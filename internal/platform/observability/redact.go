package observability

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const redactedPlaceholder = "[REDACTED]"

// Field names whose values must never reach a log sink. Matching is
// case-insensitive substring matching on the lowercased key.
var sensitiveFieldNames = []string{
	"email",
	"customer_email",
	"password",
	"token",
	"api_key",
	"secret",
	"signature",
	"authorization",
	"session_id",
	"sessionid",
	"payment_intent",
	"customer_id",
	"card_number",
	"cvv",
	"expiry",
	"first_name",
	"last_name",
	"phone",
	"address",
	"city",
	"zip",
}

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// RedactString scrubs email addresses embedded in free-form text.
func RedactString(value string) string {
	return emailPattern.ReplaceAllString(value, "[EMAIL_REDACTED]")
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, name := range sensitiveFieldNames {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

// RedactValue redacts the value entirely when the key is sensitive, otherwise
// scrubs embedded email addresses.
func RedactValue(key, value string) string {
	if isSensitiveKey(key) {
		return redactedPlaceholder
	}
	return RedactString(value)
}

// Fields converts a loosely typed field map into zap fields with PII redaction
// applied. Non-string values under sensitive keys are replaced wholesale.
func Fields(fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for key, value := range fields {
		if isSensitiveKey(key) {
			out = append(out, zap.String(key, redactedPlaceholder))
			continue
		}
		if s, ok := value.(string); ok {
			out = append(out, zap.String(key, sanitizeString(RedactString(s), defaultStringLimit)))
			continue
		}
		out = append(out, zap.Any(key, value))
	}
	return out
}
