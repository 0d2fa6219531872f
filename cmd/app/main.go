package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/tourledger/api"
	"github.com/Domenick1991/tourledger/config"
	"github.com/Domenick1991/tourledger/internal/bootstrap"
	"github.com/Domenick1991/tourledger/internal/cache"
	"github.com/Domenick1991/tourledger/internal/catalog"
	"github.com/Domenick1991/tourledger/internal/kafka"
	"github.com/Domenick1991/tourledger/internal/ledger"
	"github.com/Domenick1991/tourledger/internal/logging"
	"github.com/Domenick1991/tourledger/internal/repository"
	"github.com/Domenick1991/tourledger/internal/service/ingest"
	"github.com/Domenick1991/tourledger/internal/service/products"
	"github.com/Domenick1991/tourledger/internal/sheets"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if cfg.NeedsDatabase() {
		pool, err = pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			logger.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()
	}

	var client ledger.Client
	switch cfg.Ledger.Driver {
	case config.LedgerDriverPostgres:
		client = repository.NewLedgerRepository(pool)
	default:
		client, err = sheets.NewClient(ctx, cfg.Sheets)
		if err != nil {
			logger.Fatalf("create sheets client: %v", err)
		}
	}

	appender := ledger.NewAppender(client,
		ledger.WithMaxAttempts(cfg.Ledger.MaxAttempts),
		ledger.WithBackoff(
			time.Duration(cfg.Ledger.BaseBackoffMillis)*time.Millisecond,
			time.Duration(cfg.Ledger.MaxBackoffMillis)*time.Millisecond,
		),
		ledger.WithCallTimeout(time.Duration(cfg.Ledger.CallTimeoutSeconds)*time.Second),
		ledger.WithValueInputOption(cfg.Ledger.ValueInputOption),
		ledger.WithLogger(logger),
	)

	productCatalog := buildCatalog(ctx, cfg, pool, logger)

	countries := make([]ingest.CountryPrefix, 0, len(cfg.Countries))
	for _, c := range cfg.Countries {
		countries = append(countries, ingest.CountryPrefix{Prefix: c.Prefix, Country: c.Country})
	}

	opts := []ingest.ServiceOption{
		ingest.WithCountryTable(ingest.DefaultCountryTable.With(countries...)),
		ingest.WithMarginFactor(cfg.Pricing.MarginFactor),
		ingest.WithLogger(logger),
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
		defer producer.Close()

		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := producer.CheckConnection(checkCtx); err != nil {
			logger.WithError(err).Warn("kafka unavailable, booking events may be dropped")
		}
		cancel()

		opts = append(opts, ingest.WithEventPublisher(producer, cfg.Kafka.BookingEventsTopic))
	}

	ingestService := ingest.NewService(appender, productCatalog, opts...)

	err = bootstrap.Run(ctx, cfg, logger,
		bootstrap.Mount{Prefix: "/gyg", Routes: api.NewBookingHandler(ingestService)},
		bootstrap.Mount{Routes: api.NewHealthHandler()},
	)
	if err != nil {
		logger.Fatalf("server error: %v", err)
	}
}

func buildCatalog(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *logrus.Logger) catalog.Catalog {
	if cfg.Catalog.Source != config.CatalogSourcePostgres {
		return catalog.Static(cfg.Catalog.Products)
	}

	ttl := time.Duration(cfg.Catalog.CacheTTLSeconds) * time.Second
	redisCache := cache.NewRedisCache(cfg.Redis, ttl)
	if err := redisCache.Ping(ctx); err != nil {
		logger.WithError(err).Warn("redis unavailable, catalog reads go to postgres")
	}

	productService := products.NewProductService(repository.NewProductRepository(pool), redisCache)
	refreshing := catalog.NewRefreshing(productService, cfg.Catalog.Products, logger)
	if err := refreshing.Refresh(ctx); err != nil {
		logger.WithError(err).Warn("initial catalog load failed, using configured products")
	}

	go refreshing.Run(ctx, time.Duration(cfg.Catalog.RefreshSeconds)*time.Second)
	return refreshing
}
