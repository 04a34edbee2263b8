package config

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func baseEnv() map[string]string {
	return map[string]string{
		"STOREFRONT_BASE_URL":               "https://svatebni-denik.cz",
		"STOREFRONT_STRIPE_SECRET_KEY":      "sk_test_123",
		"STOREFRONT_STRIPE_WEBHOOK_SECRET":  "whsec_123",
		"STOREFRONT_STRIPE_PUBLISHABLE_KEY": "pk_test_123",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background(),
		WithEnvMap(baseEnv()),
		WithoutSystemEnv(),
		WithEnvFile(""),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Download.Window != 30*24*time.Hour {
		t.Fatalf("expected 30 day download window, got %v", cfg.Download.Window)
	}
	if cfg.RateLimits.CheckoutMax != 5 || cfg.RateLimits.CheckoutWindow != 15*time.Minute {
		t.Fatalf("unexpected checkout limits: %d per %v", cfg.RateLimits.CheckoutMax, cfg.RateLimits.CheckoutWindow)
	}
	if cfg.RateLimits.WebhookMax != 100 || cfg.RateLimits.WebhookWindow != time.Minute {
		t.Fatalf("unexpected webhook limits: %d per %v", cfg.RateLimits.WebhookMax, cfg.RateLimits.WebhookWindow)
	}
	if cfg.App.BaseURL != "https://svatebni-denik.cz" {
		t.Fatalf("unexpected base URL %q", cfg.App.BaseURL)
	}
}

func TestLoadTrimsTrailingSlashFromBaseURL(t *testing.T) {
	env := baseEnv()
	env["STOREFRONT_BASE_URL"] = "https://svatebni-denik.cz/"

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.App.BaseURL != "https://svatebni-denik.cz" {
		t.Fatalf("expected trailing slash removed, got %q", cfg.App.BaseURL)
	}
}

func TestLoadMissingRequiredFieldsListsAll(t *testing.T) {
	_, err := Load(context.Background(),
		WithEnvMap(map[string]string{}),
		WithoutSystemEnv(),
		WithEnvFile(""),
	)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}

	fields := strings.Join(validationErr.Fields(), "\n")
	for _, want := range []string{
		"STOREFRONT_BASE_URL",
		"STOREFRONT_STRIPE_SECRET_KEY",
		"STOREFRONT_STRIPE_WEBHOOK_SECRET",
		"STOREFRONT_STRIPE_PUBLISHABLE_KEY",
	} {
		if !strings.Contains(fields, want) {
			t.Fatalf("expected %s in validation error, got %q", want, fields)
		}
	}
}

func TestLoadResolvesSecretReferences(t *testing.T) {
	env := baseEnv()
	env["STOREFRONT_STRIPE_SECRET_KEY"] = "secret://projects/demo/secrets/stripe-key/versions/latest"

	resolver := SecretResolverFunc(func(_ context.Context, ref string) (string, error) {
		if ref != "secret://projects/demo/secrets/stripe-key/versions/latest" {
			t.Fatalf("unexpected ref %q", ref)
		}
		return "sk_live_resolved", nil
	})

	cfg, err := Load(context.Background(),
		WithEnvMap(env),
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithSecretResolver(resolver),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Stripe.SecretKey != "sk_live_resolved" {
		t.Fatalf("expected resolved secret, got %q", cfg.Stripe.SecretKey)
	}
}

func TestLoadSecretResolutionFailure(t *testing.T) {
	env := baseEnv()
	env["STOREFRONT_STRIPE_WEBHOOK_SECRET"] = "sm://projects/demo/secrets/webhook/versions/1"

	resolver := SecretResolverFunc(func(context.Context, string) (string, error) {
		return "", errors.New("permission denied")
	})

	_, err := Load(context.Background(),
		WithEnvMap(env),
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithSecretResolver(resolver),
	)
	if err == nil {
		t.Fatal("expected secret resolution error")
	}

	var secretErr *SecretError
	if !errors.As(err, &secretErr) {
		t.Fatalf("expected SecretError, got %T: %v", err, err)
	}
	if !strings.HasPrefix(secretErr.Ref, "secret://") {
		t.Fatalf("expected normalized ref, got %q", secretErr.Ref)
	}
}

func TestLoadEnvMapPrecedesDotEnv(t *testing.T) {
	env := baseEnv()
	env["STOREFRONT_PORT"] = "9090"

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port from env map, got %q", cfg.Server.Port)
	}
}
