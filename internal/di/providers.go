package di

import (
	"context"
	"fmt"
	"time"

	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/handler/api"
	"StockCast/internal/handler/ws"
	internalrepo "StockCast/internal/repository"
	"StockCast/internal/scheduler"
	"StockCast/internal/service/newsapi"
	"StockCast/internal/service/predictor"
	"StockCast/internal/service/ratelimit"
	"StockCast/internal/service/twelvedata"
	"StockCast/internal/service/yahoo"
	"StockCast/internal/usecase"
	"StockCast/pkg/cache"
	pkgch "StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	pkgkafka "StockCast/pkg/kafka"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/metrics"
	"StockCast/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates the record-store client and applies schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.Schema(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvidePredictionStore creates the ClickHouse-backed record store.
func ProvidePredictionStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) domrepo.PredictionStore {
	store := internalrepo.NewCHPredictionStore(chClient, cfg.ClickHouse.Database)
	store.SetLogger(l)
	return store
}

// ProvideEventPublisher creates the Kafka lifecycle-event publisher, or a
// no-op one when no brokers are configured.
func ProvideEventPublisher(cfg *config.Config) (domrepo.EventPublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return internalrepo.NoopEventPublisher{}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideCache creates the response cache: Redis when enabled, otherwise an
// in-process cache so handlers stay cache-agnostic.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithAddr(cfg.Redis.Host, cfg.Redis.Port),
		cache.WithPassword(cfg.Redis.Password),
		cache.WithDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("redis cache connected",
		applogger.String("host", cfg.Redis.Host),
		applogger.Int("port", cfg.Redis.Port),
	)
	return rc, nil
}

// ProvideMarketData creates the time-series/indicator provider client.
func ProvideMarketData(cfg *config.Config) domrepo.MarketData {
	p := cfg.Providers.TwelveData
	return twelvedata.New(p.APIKey, p.BaseURL, p.Timeout)
}

// ProvideNewsProvider creates the headline-search provider client.
func ProvideNewsProvider(cfg *config.Config) domrepo.NewsProvider {
	p := cfg.Providers.NewsAPI
	return newsapi.New(p.APIKey, p.BaseURL, p.Timeout)
}

// ProvideSymbolSearch creates the quote-search provider client.
func ProvideSymbolSearch(cfg *config.Config) domrepo.SymbolSearch {
	p := cfg.Providers.Yahoo
	return yahoo.New(p.BaseURL, p.Timeout)
}

// ProvideEstimator creates the price estimate generator.
func ProvideEstimator() domrepo.Estimator {
	return predictor.New()
}

// ProvideStockDataUseCase wires the stock-data flow.
func ProvideStockDataUseCase(
	market domrepo.MarketData,
	estimator domrepo.Estimator,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.StockDataUseCase {
	uc := usecase.NewStockDataUseCase(market, estimator)
	uc.SetLogger(l)
	uc.SetMetrics(m)
	return uc
}

// ProvidePredictionsUseCase wires the record create/list flow.
func ProvidePredictionsUseCase(
	store domrepo.PredictionStore,
	events domrepo.EventPublisher,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.PredictionsUseCase {
	uc := usecase.NewPredictionsUseCase(store, events)
	uc.SetLogger(l)
	uc.SetMetrics(m)
	return uc
}

// ProvideHub creates the websocket update hub.
func ProvideHub(l *applogger.Logger) *ws.Hub {
	hub := ws.NewHub()
	hub.SetLogger(l)
	return hub
}

// ProvideReconciler wires the price-reconciliation sweeper.
func ProvideReconciler(
	store domrepo.PredictionStore,
	market domrepo.MarketData,
	events domrepo.EventPublisher,
	hub *ws.Hub,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.Reconciler {
	r := usecase.NewReconciler(store, market)
	r.SetEvents(events)
	r.SetNotifier(hub)
	r.SetMetrics(m)
	r.SetLogger(l)
	return r
}

// ProvideScheduler creates the periodic sweep scheduler.
func ProvideScheduler(reconciler *usecase.Reconciler, cfg *config.Config, l *applogger.Logger) *scheduler.Scheduler {
	s := scheduler.New(reconciler, scheduler.WithCadence(cfg.Sweeper.Cadence))
	s.SetLogger(l)
	return s
}

// ProvideHandler assembles the HTTP surface.
func ProvideHandler(
	stockData *usecase.StockDataUseCase,
	predictions *usecase.PredictionsUseCase,
	reconciler *usecase.Reconciler,
	news domrepo.NewsProvider,
	search domrepo.SymbolSearch,
	cacheSvc cache.Service,
	hub *ws.Hub,
	sched *scheduler.Scheduler,
	cfg *config.Config,
	l *applogger.Logger,
) *api.Handler {
	h := api.NewHandler(stockData, predictions, reconciler, news, search,
		api.WithCache(cacheSvc),
		api.WithRateLimiter(ratelimit.New()),
		api.WithWatcher(sched),
		api.WithWebsocket(hub.Serve),
		api.WithCacheTTLs(cfg.Cache.NewsTTL, cfg.Cache.SearchTTL),
		api.WithMarketConfigured(cfg.Providers.TwelveData.APIKey != ""),
	)
	h.SetLogger(l)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	handler *api.Handler,
	sched *scheduler.Scheduler,
	hub *ws.Hub,
	chClient *pkgch.Client,
	events domrepo.EventPublisher,
	l *applogger.Logger,
) *server.App {
	return server.New(cfg, handler, sched, hub, chClient, events, l)
}
