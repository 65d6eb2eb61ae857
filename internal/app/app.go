package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	otelsql "github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/fplmetric/fplmetric/external/fplapi"
	"github.com/fplmetric/fplmetric/internal/config"
	"github.com/fplmetric/fplmetric/internal/domain/snapshot"
	cacherepo "github.com/fplmetric/fplmetric/internal/infrastructure/repository/cache"
	"github.com/fplmetric/fplmetric/internal/infrastructure/repository/postgres"
	"github.com/fplmetric/fplmetric/internal/interfaces/httpapi"
	"github.com/fplmetric/fplmetric/internal/platform/cache"
	"github.com/fplmetric/fplmetric/internal/platform/logging"
	"github.com/fplmetric/fplmetric/internal/platform/resilience"
	"github.com/fplmetric/fplmetric/internal/usecase"
)

// App holds the wired service graph for one process. Close releases the
// database pool.
type App struct {
	Server    *http.Server
	Collector *usecase.CollectorService

	db *sqlx.DB
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	fplClient := NewFPLClient(cfg, logger)
	snapshotRepo := NewSnapshotRepository(cfg, db)

	collectorSvc := usecase.NewCollectorService(fplClient, snapshotRepo, logger)
	statsSvc := usecase.NewStatsService(snapshotRepo)
	scheduleSvc := usecase.NewScheduleService(fplClient, fplClient, logger)
	dashboardSvc := usecase.NewDashboardService(statsSvc, scheduleSvc)

	handler := httpapi.NewHandler(statsSvc, scheduleSvc, dashboardSvc, collectorSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server:    server,
		Collector: collectorSvc,
		db:        db,
	}, nil
}

// OpenDB opens the traced connection pool. The pool is lazy; callers that
// need fail-fast behavior should ping it themselves.
func OpenDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return db, nil
}

// NewFPLClient builds the upstream client with the configured retry and
// circuit settings.
func NewFPLClient(cfg config.Config, logger *logging.Logger) *fplapi.Client {
	return fplapi.NewClient(fplapi.ClientConfig{
		BaseURL:    cfg.FPLBaseURL,
		Timeout:    cfg.FPLTimeout,
		MaxRetries: cfg.FPLMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FPLCircuitEnabled,
			FailureThreshold: cfg.FPLCircuitFailureCount,
			OpenTimeout:      cfg.FPLCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FPLCircuitHalfOpenMax,
		},
	})
}

// NewSnapshotRepository wraps the postgres store with the read cache when
// caching is enabled.
func NewSnapshotRepository(cfg config.Config, db *sqlx.DB) snapshot.Repository {
	repo := postgres.NewSnapshotRepository(db)
	if !cfg.CacheEnabled {
		return repo
	}
	return cacherepo.NewSnapshotRepository(repo, cache.NewStore(cfg.CacheTTL))
}
