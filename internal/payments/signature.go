package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultSignatureTolerance bounds how old a webhook timestamp may be.
const DefaultSignatureTolerance = 5 * time.Minute

var (
	// ErrInvalidSignature is returned when the webhook signature does not verify.
	ErrInvalidSignature = errors.New("payments: invalid webhook signature")
	// ErrSignatureExpired is returned when the timestamp falls outside the tolerance.
	ErrSignatureExpired = errors.New("payments: webhook signature timestamp out of tolerance")
)

// SignatureVerifier validates Stripe-Signature headers against a webhook secret.
type SignatureVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

// VerifierOption customises SignatureVerifier construction.
type VerifierOption func(*SignatureVerifier)

// WithTolerance overrides the allowed clock skew.
func WithTolerance(tolerance time.Duration) VerifierOption {
	return func(v *SignatureVerifier) {
		if tolerance > 0 {
			v.tolerance = tolerance
		}
	}
}

// WithNow overrides the time source, primarily for tests.
func WithNow(now func() time.Time) VerifierOption {
	return func(v *SignatureVerifier) {
		if now != nil {
			v.now = now
		}
	}
}

// NewSignatureVerifier builds a verifier for the given webhook secret.
func NewSignatureVerifier(secret string, opts ...VerifierOption) (*SignatureVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("payments: webhook secret is required")
	}
	v := &SignatureVerifier{
		secret:    []byte(secret),
		tolerance: DefaultSignatureTolerance,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify checks the Stripe-Signature header for the given payload. The header
// carries a timestamp and one or more v1 signatures computed as
// HMAC-SHA256(secret, "<timestamp>.<payload>").
func (v *SignatureVerifier) Verify(payload []byte, header string) error {
	timestamp, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	age := v.now().Sub(time.Unix(timestamp, 0))
	if age > v.tolerance || age < -v.tolerance {
		return ErrSignatureExpired
	}

	expected := v.sign(timestamp, payload)
	for _, sig := range signatures {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// Sign produces a Stripe-Signature header value for the payload, used by tests
// and local tooling to emit verifiable events.
func (v *SignatureVerifier) Sign(payload []byte, at time.Time) string {
	timestamp := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(v.sign(timestamp, payload)))
}

func (v *SignatureVerifier) sign(timestamp int64, payload []byte) []byte {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

func parseSignatureHeader(header string) (int64, []string, error) {
	if strings.TrimSpace(header) == "" {
		return 0, nil, ErrInvalidSignature
	}

	var (
		timestamp  int64
		signatures []string
	)

	for _, part := range strings.Split(header, ",") {
		pair := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(pair) != 2 {
			continue
		}
		switch pair[0] {
		case "t":
			parsed, err := strconv.ParseInt(pair[1], 10, 64)
			if err != nil {
				return 0, nil, ErrInvalidSignature
			}
			timestamp = parsed
		case "v1":
			signatures = append(signatures, pair[1])
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return 0, nil, ErrInvalidSignature
	}
	return timestamp, signatures, nil
}
