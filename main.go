package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appBilling "inventorypos/internal/application/billing"
	appCart "inventorypos/internal/application/cart"
	appCatalog "inventorypos/internal/application/catalog"
	appSelling "inventorypos/internal/application/selling"
	"inventorypos/internal/config"
	domainCart "inventorypos/internal/domain/cart"
	domainPayment "inventorypos/internal/domain/payment"
	domainProduct "inventorypos/internal/domain/product"
	domainSale "inventorypos/internal/domain/sale"
	domainShop "inventorypos/internal/domain/shop"
	domainUser "inventorypos/internal/domain/user"
	"inventorypos/internal/infrastructure/cache"
	"inventorypos/internal/infrastructure/id"
	ledgerworker "inventorypos/internal/infrastructure/ledger/worker"
	"inventorypos/internal/infrastructure/memory"
	mongostore "inventorypos/internal/infrastructure/mongo"
	"inventorypos/internal/infrastructure/observability/oteltrace"
	"inventorypos/internal/infrastructure/observability/prometrics"
	"inventorypos/internal/infrastructure/observability/telemetry"
	"inventorypos/internal/infrastructure/observability/zaplogger"
	"inventorypos/internal/infrastructure/outbox"
	stripegateway "inventorypos/internal/infrastructure/stripe"
	"inventorypos/internal/observability"
	"inventorypos/internal/pkg/logging"
	httppresentation "inventorypos/internal/presentation/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type repositories struct {
	shops    domainShop.Repository
	products domainProduct.Repository
	users    domainUser.Repository
	carts    domainCart.Repository
	sales    domainSale.Repository
	payments domainPayment.Repository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	baseLogger := logging.MustNewLogger(cfg.ServiceName, cfg.Env)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	logger := zaplogger.Wrap(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel := buildObservability(ctx, cfg, logger)

	repos, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("store_init_failed", observability.F("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	idGenerator := id.NewUUIDGenerator()

	bus := outbox.NewBus(logger)
	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	ledgerWorker := ledgerworker.New(bus, tel)
	ledgerWorker.Start()

	var authorizer appBilling.ChargeAuthorizer
	if cfg.StripeSecretKey != "" {
		authorizer = stripegateway.NewClient(cfg.StripeSecretKey)
	} else {
		logger.Warn("stripe_key_missing_payment_intents_disabled")
	}

	catalogService := appCatalog.NewService(repos.shops, repos.products, repos.users, idGenerator, tel)
	sellUseCase := appSelling.NewSellUseCase(repos.products, repos.sales, idGenerator, bus, tel)
	saleQuery := appSelling.NewSaleQuery(repos.sales)
	billingService := appBilling.NewService(repos.payments, repos.users, repos.shops, idGenerator, authorizer, bus, tel)
	cartService := appCart.NewService(repos.carts, idGenerator)

	handler := httppresentation.NewHandler(catalogService, sellUseCase, saleQuery, billingService, cartService, tel)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		logger.Info("http_server_start", observability.F("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", observability.F("error", err.Error()))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", observability.F("error", err.Error()))
	} else {
		logger.Info("http_server_stopped")
	}
}

// buildObservability assembles the telemetry provider: prometheus-backed
// instruments, the OTel tracer, and the wrapped zap logger. When an OTLP
// endpoint is configured the tracer provider exports spans there;
// otherwise spans stay local no-ops.
func buildObservability(ctx context.Context, cfg config.App, logger observability.Logger) observability.Observability {
	if cfg.OTLPEndpoint != "" {
		shutdown, err := telemetry.InitTracer(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.Env)
		if err != nil {
			logger.Warn("otel_init_failed", observability.F("error", err.Error()))
		} else {
			go func() {
				<-ctx.Done()
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(flushCtx)
			}()
		}
	}

	registry := prometrics.New("", "")

	counters := map[observability.MetricKey]observability.Counter{
		observability.MUsecaseRequests: registry.Counter(observability.MUsecaseRequests,
			"Total number of use case invocations.", "use_case", "outcome"),
		observability.MHTTPRequests: registry.Counter(observability.MHTTPRequests,
			"Total number of HTTP requests.", "method", "route", "status"),
		observability.MSalesRecorded: registry.Counter(observability.MSalesRecorded,
			"Total number of recorded sales."),
		observability.MPaymentsRecorded: registry.Counter(observability.MPaymentsRecorded,
			"Total number of recorded payments.", "plan"),
		observability.MQuotaRejections: registry.Counter(observability.MQuotaRejections,
			"Creations rejected because the owner hit the entity cap.", "kind"),
		observability.MOversellRejections: registry.Counter(observability.MOversellRejections,
			"Sale attempts rejected because stock was exhausted.", "product_id"),
	}
	histograms := map[observability.MetricKey]observability.Histogram{
		observability.MUsecaseDuration: registry.Histogram(observability.MUsecaseDuration,
			"Duration of use case execution in seconds.", nil, "use_case"),
		observability.MHTTPRequestDuration: registry.Histogram(observability.MHTTPRequestDuration,
			"Duration of HTTP request handling in seconds.", nil, "method", "route"),
	}

	return telemetry.New(oteltrace.New(cfg.ServiceName), logger, counters, histograms)
}

// buildRepositories picks the persistence driver. Mongo is the default;
// memory keeps everything in-process for local runs and tests. When a
// redis address is configured the product repository is wrapped in a
// read-through cache.
func buildRepositories(ctx context.Context, cfg config.App, logger observability.Logger) (repositories, func(), error) {
	cleanup := func() {}

	var repos repositories
	switch cfg.StoreDriver {
	case "memory":
		repos = repositories{
			shops:    memory.NewShopRepository(),
			products: memory.NewProductRepository(),
			users:    memory.NewUserRepository(),
			carts:    memory.NewCartRepository(),
			sales:    memory.NewSaleRepository(),
			payments: memory.NewPaymentRepository(),
		}
	default:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		store, err := mongostore.Connect(connectCtx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return repositories{}, cleanup, err
		}
		cleanup = func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = store.Close(closeCtx)
		}
		repos = repositories{
			shops:    mongostore.NewShopRepository(store),
			products: mongostore.NewProductRepository(store),
			users:    mongostore.NewUserRepository(store),
			carts:    mongostore.NewCartRepository(store),
			sales:    mongostore.NewSaleRepository(store),
			payments: mongostore.NewPaymentRepository(store),
		}
	}

	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis_unavailable_cache_disabled", observability.F("error", err.Error()))
		} else {
			repos.products = cache.NewProductCache(repos.products, client, logger)
			prev := cleanup
			cleanup = func() {
				_ = client.Close()
				prev()
			}
		}
	}

	return repos, cleanup, nil
}
