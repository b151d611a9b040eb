// Package app assembles the ledger API from configuration: store, optional
// idempotency cache, services, handlers and the middleware chain.
package app

import (
	"github.com/nimasrn/finance-ledger/internal/config"
	"github.com/nimasrn/finance-ledger/internal/handlers"
	"github.com/nimasrn/finance-ledger/internal/idempotency"
	"github.com/nimasrn/finance-ledger/internal/repository"
	"github.com/nimasrn/finance-ledger/internal/services"
	xhttp "github.com/nimasrn/finance-ledger/pkg/http"
	"github.com/nimasrn/finance-ledger/pkg/logger"
	"github.com/nimasrn/finance-ledger/pkg/pg"
	"github.com/nimasrn/finance-ledger/pkg/redis"
	"github.com/pkg/errors"
)

// OpenStore connects to the configured database. The sqlite schema is
// created in place; postgres is migrated separately with cmd/cli.
func OpenStore(cfg *config.Config) (*pg.DB, error) {
	debug := cfg.AppEnv == "dev"
	switch cfg.DBDriver {
	case pg.DriverSQLite:
		db, err := pg.CreateSQLite(cfg.SQLitePath, debug)
		if err != nil {
			return nil, errors.Wrap(err, "open sqlite")
		}
		if err := db.AutoMigrate(repository.Entities()...); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "migrate sqlite")
		}
		return db, nil
	case pg.DriverPostgres:
		db, err := pg.CreateReadWrite(cfg.PostgresRead(), cfg.PostgresWrite(), debug)
		if err != nil {
			return nil, errors.Wrap(err, "open postgres")
		}
		return db, nil
	}
	return nil, errors.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

// OpenIdempotency returns nil when no Redis address is configured.
func OpenIdempotency(cfg *config.Config) (*idempotency.Service, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	adapter, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{cfg.RedisAddr},
		ClientName: cfg.AppName,
		DB:         cfg.RedisDatabase,
		Username:   cfg.RedisUsername,
		Password:   cfg.RedisPassword,
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect redis")
	}
	c := idempotency.DefaultConfig()
	c.LockTTL = cfg.IdempotencyLockTTL
	c.ResponseTTL = cfg.IdempotencyTTL
	return idempotency.NewService(adapter, c), nil
}

// NewEngine builds the HTTP engine with every route registered. idem may be
// nil. The middleware chain is applied by Engine.DoRouting.
func NewEngine(cfg *config.Config, db *pg.DB, idem *idempotency.Service) *xhttp.Engine {
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Router = xhttp.CreateDefaultRouter()
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.RequestIDMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.CORSMiddleware)
	if cfg.HttpCompressLevel > 0 {
		s.Use(xhttp.CompressMiddleware(cfg.HttpCompressLevel))
	}
	s.Use(xhttp.TimeoutMiddleware(cfg.HttpRequestTimeout))

	transactionRepo := repository.NewTransactionRepository(db, cfg.StoreTimeout)

	// services
	ledgerService := services.NewLedgerService(transactionRepo, services.LedgerOptions{
		DefaultLimit:    cfg.ListDefaultLimit,
		MaxLimit:        cfg.ListMaxLimit,
		BulkMaxIDs:      cfg.BulkDeleteMaxIDs,
		BulkConcurrency: cfg.BulkDeleteConcurrency,
	})
	reportService := services.NewReportService(transactionRepo)
	healthService := services.NewHealthService(db)

	// handlers
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(healthService)

	var createMiddleware []xhttp.MiddlewareFunc
	if idem != nil {
		createMiddleware = append(createMiddleware, idem.Middleware)
	} else {
		logger.Info("[app] idempotency disabled, REDIS_ADDR not set")
	}

	handlers.RegisterTransactionRoutes(s.Router, transactionHandler, createMiddleware...)
	handlers.RegisterReportRoutes(s.Router, reportHandler)
	handlers.RegisterHealthRoutes(s.Router, healthHandler)

	return s
}
