package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"

	"github.com/svatebni-denik/storefront/internal/content"
	"github.com/svatebni-denik/storefront/internal/files"
	"github.com/svatebni-denik/storefront/internal/gates"
	"github.com/svatebni-denik/storefront/internal/handlers"
	"github.com/svatebni-denik/storefront/internal/i18n"
	"github.com/svatebni-denik/storefront/internal/jobs"
	"github.com/svatebni-denik/storefront/internal/orders"
	"github.com/svatebni-denik/storefront/internal/payments"
	"github.com/svatebni-denik/storefront/internal/platform/config"
	pfirestore "github.com/svatebni-denik/storefront/internal/platform/firestore"
	"github.com/svatebni-denik/storefront/internal/platform/observability"
	"github.com/svatebni-denik/storefront/internal/platform/secrets"
	"github.com/svatebni-denik/storefront/internal/ratelimit"
	"github.com/svatebni-denik/storefront/internal/routes"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("storefront")
	ctx = observability.WithLogger(ctx, logger)

	fetcher, err := newSecretFetcher(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialise secret fetcher", zap.Error(err))
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("secret fetcher close error", zap.Error(err))
		}
	}()

	cfg, err := config.Load(ctx, config.WithSecretResolver(fetcher))
	if err != nil {
		var validation *config.ValidationError
		if errors.As(err, &validation) {
			logger.Fatal("missing required configuration", zap.Strings("fields", validation.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	paymentsLogger := logger.Named("payments")
	provider, err := payments.NewStripeProvider(payments.StripeProviderConfig{
		APIKey: cfg.Stripe.SecretKey,
		Logger: func(ctx context.Context, event string, fields map[string]any) {
			zFields := make([]zap.Field, 0, len(fields)+1)
			zFields = append(zFields, zap.String("event", event))
			for k, v := range fields {
				zFields = append(zFields, zap.Any(k, v))
			}
			paymentsLogger.Debug("stripe log", zFields...)
		},
		Clock: time.Now,
	})
	if err != nil {
		logger.Fatal("failed to initialise stripe provider", zap.Error(err))
	}

	verifier, err := payments.NewSignatureVerifier(cfg.Stripe.WebhookSecret,
		payments.WithTolerance(cfg.Stripe.ClockSkew),
	)
	if err != nil {
		logger.Fatal("failed to initialise webhook verifier", zap.Error(err))
	}

	fileStore, closeFiles, err := newFileStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to initialise file store", zap.Error(err))
	}
	defer closeFiles(logger)

	orderRepo, closeOrders := newOrderRepository(cfg.Firestore, logger)
	defer closeOrders(logger)

	publisher, closePublisher, err := newFulfillmentPublisher(ctx, cfg.PubSub, logger)
	if err != nil {
		logger.Fatal("failed to initialise fulfillment publisher", zap.Error(err))
	}
	defer closePublisher(logger)

	table, err := routes.NewTable()
	if err != nil {
		logger.Fatal("failed to build route table", zap.Error(err))
	}
	bundle, err := i18n.NewBundle()
	if err != nil {
		logger.Fatal("failed to load translations", zap.Error(err))
	}
	contentStore, err := content.NewStore()
	if err != nil {
		logger.Fatal("failed to render content pages", zap.Error(err))
	}

	checkoutLimiter := ratelimit.NewMemoryLimiter(cfg.RateLimits.CheckoutMax, cfg.RateLimits.CheckoutWindow,
		ratelimit.WithSweepPeriod(cfg.RateLimits.SweepPeriod))
	defer checkoutLimiter.Close()
	validationLimiter := ratelimit.NewMemoryLimiter(cfg.RateLimits.ValidationMax, cfg.RateLimits.ValidationWindow,
		ratelimit.WithSweepPeriod(cfg.RateLimits.SweepPeriod))
	defer validationLimiter.Close()
	webhookLimiter := ratelimit.NewMemoryLimiter(cfg.RateLimits.WebhookMax, cfg.RateLimits.WebhookWindow,
		ratelimit.WithSweepPeriod(cfg.RateLimits.SweepPeriod))
	defer webhookLimiter.Close()

	api := handlers.NewAPI(handlers.APIDeps{
		Logger:   logger.Named("api"),
		Provider: provider,
		Verifier: verifier,

		DownloadGate: gates.NewDownloadGate(provider, gates.WithWindow(cfg.Download.Window)),
		Orders:       orderRepo,
		Files:        fileStore,
		Publisher:    publisher,
		Table:        table,

		BaseURL: cfg.App.BaseURL,

		CheckoutLimiter:   checkoutLimiter,
		ValidationLimiter: validationLimiter,
		WebhookLimiter:    webhookLimiter,
	})

	pages, err := handlers.NewPages(handlers.PageDeps{
		Logger:      logger.Named("pages"),
		Bundle:      bundle,
		Content:     contentStore,
		SessionGate: gates.NewSessionGate(provider),
		Table:       table,

		StripePublishableKey: cfg.Stripe.PublishableKey,
	})
	if err != nil {
		logger.Fatal("failed to initialise page handlers", zap.Error(err))
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		Logger:    logger.Named("http"),
		ProjectID: cfg.Firestore.ProjectID,
		BaseURL:   cfg.App.BaseURL,
		API:       api,
		Pages:     pages,
		Table:     table,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("storefront listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newSecretFetcher(ctx context.Context, logger *zap.Logger) (*secrets.Fetcher, error) {
	opts := []secrets.Option{
		secrets.WithLogger(logger.Named("secrets")),
	}
	if project := strings.TrimSpace(os.Getenv("STOREFRONT_SECRET_PROJECT_ID")); project != "" {
		opts = append(opts, secrets.WithDefaultProject(project))
	}
	if fallback := strings.TrimSpace(os.Getenv("STOREFRONT_SECRET_FALLBACK_FILE")); fallback != "" {
		opts = append(opts, secrets.WithFallbackFile(fallback))
	}
	return secrets.NewFetcher(ctx, opts...)
}

func newFileStore(ctx context.Context, cfg config.StorageConfig) (files.Store, func(*zap.Logger), error) {
	if cfg.ProductsBucket != "" {
		store, err := files.NewGCS(ctx, cfg.ProductsBucket)
		if err != nil {
			return nil, nil, err
		}
		return store, func(logger *zap.Logger) {
			if err := store.Close(); err != nil {
				logger.Warn("storage close error", zap.Error(err))
			}
		}, nil
	}

	store, err := files.NewDir(cfg.ProductsDir)
	if err != nil {
		return nil, nil, err
	}
	return store, func(*zap.Logger) {}, nil
}

func newOrderRepository(cfg config.FirestoreConfig, logger *zap.Logger) (orders.Repository, func(*zap.Logger)) {
	if cfg.ProjectID == "" {
		logger.Warn("firestore project not configured; orders are kept in memory")
		return orders.NewMemoryRepository(), func(*zap.Logger) {}
	}

	provider := pfirestore.NewProvider(cfg)
	return orders.NewFirestoreRepository(provider), func(logger *zap.Logger) {
		if err := provider.Close(); err != nil {
			logger.Warn("firestore close error", zap.Error(err))
		}
	}
}

func newFulfillmentPublisher(ctx context.Context, cfg config.PubSubConfig, logger *zap.Logger) (jobs.FulfillmentPublisher, func(*zap.Logger), error) {
	if cfg.TopicID == "" {
		logger.Warn("pubsub topic not configured; fulfillment messages are dropped")
		return jobs.NopFulfillmentPublisher{}, func(*zap.Logger) {}, nil
	}
	if cfg.ProjectID == "" {
		return nil, nil, errors.New("pubsub topic configured without a project id")
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, nil, err
	}

	topic := client.Topic(cfg.TopicID)
	publisher, err := jobs.NewPubSubFulfillmentPublisher(topic)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return publisher, func(logger *zap.Logger) {
		topic.Stop()
		if err := client.Close(); err != nil {
			logger.Warn("pubsub close error", zap.Error(err))
		}
	}, nil
}
