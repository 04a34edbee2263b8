package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile      = ".env"
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second

	defaultDownloadWindow = 30 * 24 * time.Hour

	defaultCheckoutLimit      = 5
	defaultCheckoutWindow     = 15 * time.Minute
	defaultValidationLimit    = 20
	defaultValidationWindow   = 5 * time.Minute
	defaultWebhookLimit       = 100
	defaultWebhookWindow      = time.Minute
	defaultLimiterSweepPeriod = 5 * time.Minute

	defaultWebhookClockSkew = 5 * time.Minute
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server     ServerConfig
	App        AppConfig
	Stripe     StripeConfig
	Download   DownloadConfig
	RateLimits RateLimitConfig
	Storage    StorageConfig
	Firestore  FirestoreConfig
	PubSub     PubSubConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// AppConfig holds application-level settings.
type AppConfig struct {
	BaseURL     string
	Environment string
}

// StripeConfig collects payment provider credentials.
type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	PublishableKey string
	ClockSkew      time.Duration
}

// DownloadConfig bounds access to purchased files.
type DownloadConfig struct {
	Window time.Duration
}

// RateLimitConfig controls per-client request throttling.
type RateLimitConfig struct {
	CheckoutMax      int
	CheckoutWindow   time.Duration
	ValidationMax    int
	ValidationWindow time.Duration
	WebhookMax       int
	WebhookWindow    time.Duration
	SweepPeriod      time.Duration
}

// StorageConfig locates the purchased product files. When Bucket is set the
// files are served from Cloud Storage, otherwise from the local directory.
type StorageConfig struct {
	ProductsBucket string
	ProductsDir    string
}

// FirestoreConfig stores order database parameters.
type FirestoreConfig struct {
	ProjectID    string
	EmulatorHost string
}

// PubSubConfig locates the fulfillment job topic.
type PubSubConfig struct {
	ProjectID string
	TopicID   string
}

// SecretResolver resolves references to external secrets (e.g. Secret Manager URIs).
type SecretResolver interface {
	ResolveSecret(ctx context.Context, ref string) (string, error)
}

// SecretResolverFunc adapts ordinary functions to SecretResolver.
type SecretResolverFunc func(context.Context, string) (string, error)

// ResolveSecret resolves the secret using the wrapped function.
func (f SecretResolverFunc) ResolveSecret(ctx context.Context, ref string) (string, error) {
	return f(ctx, ref)
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// SecretError describes failures while resolving a secret reference.
type SecretError struct {
	Ref string
	Err error
}

// Error implements the error interface.
func (e *SecretError) Error() string {
	return fmt.Sprintf("secret resolution failed for ref %q: %v", e.Ref, e.Err)
}

// Unwrap exposes the underlying error.
func (e *SecretError) Unwrap() error { return e.Err }

var errSecretResolverNotConfigured = errors.New("secret resolver not configured")

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
	secret       SecretResolver
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// WithSecretResolver sets a custom secret resolver used for secret:// references.
func WithSecretResolver(resolver SecretResolver) Option {
	return func(o *loaderOptions) {
		o.secret = resolver
	}
}

// Load assembles the application configuration by combining defaults, .env overrides,
// environment variables, and optional secret manager lookups. Missing required
// values surface as a ValidationError naming every absent field.
func Load(ctx context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
		secret: SecretResolverFunc(func(ctx context.Context, ref string) (string, error) {
			return "", &SecretError{Ref: ref, Err: errSecretResolverNotConfigured}
		}),
	}

	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "STOREFRONT_PORT", defaultPort),
			ReadTimeout:  durationWithDefault(lookup, "STOREFRONT_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "STOREFRONT_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "STOREFRONT_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		App: AppConfig{
			BaseURL:     strings.TrimRight(stringWithDefault(lookup, "STOREFRONT_BASE_URL", ""), "/"),
			Environment: strings.ToLower(stringWithDefault(lookup, "STOREFRONT_ENVIRONMENT", "local")),
		},
		Stripe: StripeConfig{
			SecretKey:      stringWithDefault(lookup, "STOREFRONT_STRIPE_SECRET_KEY", ""),
			WebhookSecret:  stringWithDefault(lookup, "STOREFRONT_STRIPE_WEBHOOK_SECRET", ""),
			PublishableKey: stringWithDefault(lookup, "STOREFRONT_STRIPE_PUBLISHABLE_KEY", ""),
			ClockSkew:      durationWithDefault(lookup, "STOREFRONT_STRIPE_CLOCK_SKEW", defaultWebhookClockSkew),
		},
		Download: DownloadConfig{
			Window: durationWithDefault(lookup, "STOREFRONT_DOWNLOAD_WINDOW", defaultDownloadWindow),
		},
		RateLimits: RateLimitConfig{
			CheckoutMax:      intWithDefault(lookup, "STOREFRONT_RATELIMIT_CHECKOUT_MAX", defaultCheckoutLimit),
			CheckoutWindow:   durationWithDefault(lookup, "STOREFRONT_RATELIMIT_CHECKOUT_WINDOW", defaultCheckoutWindow),
			ValidationMax:    intWithDefault(lookup, "STOREFRONT_RATELIMIT_VALIDATION_MAX", defaultValidationLimit),
			ValidationWindow: durationWithDefault(lookup, "STOREFRONT_RATELIMIT_VALIDATION_WINDOW", defaultValidationWindow),
			WebhookMax:       intWithDefault(lookup, "STOREFRONT_RATELIMIT_WEBHOOK_MAX", defaultWebhookLimit),
			WebhookWindow:    durationWithDefault(lookup, "STOREFRONT_RATELIMIT_WEBHOOK_WINDOW", defaultWebhookWindow),
			SweepPeriod:      durationWithDefault(lookup, "STOREFRONT_RATELIMIT_SWEEP_PERIOD", defaultLimiterSweepPeriod),
		},
		Storage: StorageConfig{
			ProductsBucket: stringWithDefault(lookup, "STOREFRONT_PRODUCTS_BUCKET", ""),
			ProductsDir:    stringWithDefault(lookup, "STOREFRONT_PRODUCTS_DIR", "products"),
		},
		Firestore: FirestoreConfig{
			ProjectID:    stringWithDefault(lookup, "STOREFRONT_FIRESTORE_PROJECT_ID", ""),
			EmulatorHost: stringWithDefault(lookup, "STOREFRONT_FIRESTORE_EMULATOR_HOST", ""),
		},
		PubSub: PubSubConfig{
			ProjectID: stringWithDefault(lookup, "STOREFRONT_PUBSUB_PROJECT_ID", ""),
			TopicID:   stringWithDefault(lookup, "STOREFRONT_PUBSUB_TOPIC", ""),
		},
	}

	if cfg.PubSub.ProjectID == "" {
		cfg.PubSub.ProjectID = cfg.Firestore.ProjectID
	}

	// Resolve secrets when values reference Secret Manager.
	secretFields := []struct {
		name  string
		field *string
	}{
		{"Stripe.SecretKey", &cfg.Stripe.SecretKey},
		{"Stripe.WebhookSecret", &cfg.Stripe.WebhookSecret},
		{"Stripe.PublishableKey", &cfg.Stripe.PublishableKey},
	}
	for _, target := range secretFields {
		resolved, err := resolveSecret(ctx, *target.field, options.secret)
		if err != nil {
			return Config{}, err
		}
		*target.field = resolved
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func resolveSecret(ctx context.Context, value string, resolver SecretResolver) (string, error) {
	if value == "" {
		return value, nil
	}
	if !isSecretReference(value) {
		return value, nil
	}
	if resolver == nil {
		normalized := normalizeSecretReference(value)
		return "", &SecretError{Ref: normalized, Err: errSecretResolverNotConfigured}
	}
	normalized := normalizeSecretReference(value)
	secret, err := resolver.ResolveSecret(ctx, normalized)
	if err != nil {
		return "", &SecretError{Ref: normalized, Err: err}
	}
	return secret, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port (STOREFRONT_PORT)")
	}
	if cfg.App.BaseURL == "" {
		missing = append(missing, "App.BaseURL (STOREFRONT_BASE_URL)")
	}
	if strings.TrimSpace(cfg.Stripe.SecretKey) == "" {
		missing = append(missing, "Stripe.SecretKey (STOREFRONT_STRIPE_SECRET_KEY)")
	}
	if strings.TrimSpace(cfg.Stripe.WebhookSecret) == "" {
		missing = append(missing, "Stripe.WebhookSecret (STOREFRONT_STRIPE_WEBHOOK_SECRET)")
	}
	if strings.TrimSpace(cfg.Stripe.PublishableKey) == "" {
		missing = append(missing, "Stripe.PublishableKey (STOREFRONT_STRIPE_PUBLISHABLE_KEY)")
	}
	if cfg.Download.Window <= 0 {
		missing = append(missing, "Download.Window (STOREFRONT_DOWNLOAD_WINDOW)")
	}
	if cfg.RateLimits.CheckoutMax <= 0 || cfg.RateLimits.CheckoutWindow <= 0 {
		missing = append(missing, "RateLimits.Checkout (STOREFRONT_RATELIMIT_CHECKOUT_*)")
	}
	if cfg.Storage.ProductsBucket == "" && cfg.Storage.ProductsDir == "" {
		missing = append(missing, "Storage (STOREFRONT_PRODUCTS_BUCKET or STOREFRONT_PRODUCTS_DIR)")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func isSecretReference(value string) bool {
	trimmed := strings.TrimSpace(value)
	return strings.HasPrefix(trimmed, "secret://") || strings.HasPrefix(trimmed, "sm://")
}

func normalizeSecretReference(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "sm://") {
		return "secret://" + strings.TrimPrefix(trimmed, "sm://")
	}
	return trimmed
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		value = strings.Trim(value, "\"'")
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
