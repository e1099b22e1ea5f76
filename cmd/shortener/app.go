package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"shortlink/internal/analytics/enrichment"
	clickpostgres "shortlink/internal/analytics/repository/postgres"
	clicksqlite "shortlink/internal/analytics/repository/sqlite"
	"shortlink/internal/analytics/pipeline"
	analyticsusecase "shortlink/internal/analytics/usecase"
	"shortlink/internal/config"
	"shortlink/internal/database"
	httpdelivery "shortlink/internal/delivery/http"
	"shortlink/internal/link/repository/cache"
	linkpostgres "shortlink/internal/link/repository/postgres"
	linksqlite "shortlink/internal/link/repository/sqlite"
	"shortlink/internal/link/token"
	linkusecase "shortlink/internal/link/usecase"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app owns every long-lived resource of the service.
type app struct {
	handler     http.Handler
	clickRouter *pipeline.Router
	log         *zap.Logger

	// closers run in reverse order on close.
	closers []func() error
}

func newApp(cfg *config.Config, log *zap.Logger) (_ *app, err error) {
	a := &app{log: log}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	db, err := openDatabase(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	a.onClose(db.Close)

	health := httpdelivery.NewHealthHandler().AddCheck("database", db.PingContext)

	// Link side.
	linkStore, clickRepo := repositories(cfg.Database.Driver, db)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.onClose(rdb.Close)

		linkStore = cache.NewCachedLinkStore(linkStore, cache.NewRedisLinkCache(rdb, cfg.Redis.TTL, log))
		health.AddCheck("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		log.Info("link cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	links := linkusecase.NewLinkService(
		linkStore,
		token.NewGenerator(cfg.Allocator.TokenLength),
		log,
		cfg.Allocator.MaxAttempts,
	)

	// Analytics side.
	geo, err := geoLookup(cfg.Geo)
	if err != nil {
		return nil, err
	}
	if closer, ok := geo.(interface{ Close() error }); ok {
		a.onClose(closer.Close)
	}

	classifier := enrichment.NewVisitClassifier(
		enrichment.NewUserAgentParser(),
		geo,
		log,
		enrichment.WithTestIP(cfg.Geo.TestIP),
		enrichment.WithLookupTimeout(cfg.Geo.Timeout),
	)
	recorder := analyticsusecase.NewRecorder(clickRepo)
	aggregator := analyticsusecase.NewAggregator(linkStore, clickRepo, enrichment.NewRefererClassifier())

	bus := pipeline.NewBus(pipeline.NewZapLoggerAdapter(log))
	a.onClose(bus.Close)

	a.clickRouter, err = pipeline.NewRouter(bus.Subscriber(), pipeline.NewClickHandler(classifier, recorder), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create click router: %w", err)
	}
	a.onClose(a.clickRouter.Close)

	// Transport.
	var rateLimiter *httpdelivery.RateLimiter
	if cfg.Server.RateLimit > 0 {
		rateLimiter = httpdelivery.NewRateLimiter(cfg.Server.RateLimit)
		a.onClose(func() error { rateLimiter.Stop(); return nil })
	}

	a.handler = httpdelivery.NewRouter(
		httpdelivery.NewHandler(links, pipeline.NewDispatcher(bus.Publisher(), log), cfg.Server.BaseURL, log),
		httpdelivery.NewAnalyticsHandler(aggregator, log),
		health,
		log,
		rateLimiter,
	)

	return a, nil
}

// startPipeline runs the click router until close and waits for it to
// subscribe. The returned channel reports the router's exit.
func (a *app) startPipeline() (<-chan error, error) {
	routerErr := make(chan error, 1)
	go func() { routerErr <- a.clickRouter.Run(context.Background()) }()

	select {
	case <-a.clickRouter.Running():
		return routerErr, nil
	case err := <-routerErr:
		return nil, fmt.Errorf("click router failed to start: %w", err)
	}
}

func (a *app) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// close releases resources in reverse order of acquisition, so the click
// router drains before the bus and database close.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("failed to release resource", zap.Error(err))
		}
	}
	a.closers = nil
}

func openDatabase(cfg config.DatabaseConfig, log *zap.Logger) (*sql.DB, error) {
	if cfg.Driver == database.DriverSQLite && cfg.DSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := database.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db, cfg.Driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database initialized", zap.String("driver", cfg.Driver))
	return db, nil
}

func repositories(driver string, db *sql.DB) (linkusecase.LinkStore, analyticsusecase.ClickRepository) {
	if driver == database.DriverPostgres {
		return linkpostgres.NewLinkRepository(db), clickpostgres.NewClickRepository(db)
	}
	return linksqlite.NewLinkRepository(db), clicksqlite.NewClickRepository(db)
}

func geoLookup(cfg config.GeoConfig) (enrichment.GeoLookup, error) {
	switch cfg.Provider {
	case config.GeoProviderGeoIP:
		lookup, err := enrichment.NewGeoIPLookup(cfg.GeoIPPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open geoip database: %w", err)
		}
		return lookup, nil
	case config.GeoProviderIPAPI:
		return enrichment.NewIPAPILookup(cfg.IPAPIURL, &http.Client{Timeout: cfg.Timeout}), nil
	default:
		return enrichment.NoopGeoLookup{}, nil
	}
}
