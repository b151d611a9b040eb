package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/nimasrn/finance-ledger/internal/app"
	"github.com/nimasrn/finance-ledger/internal/config"
	"github.com/nimasrn/finance-ledger/pkg/logger"
	"github.com/nimasrn/finance-ledger/pkg/prom"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	defer logger.Sync()

	err := config.Load(config.EnvPathFromArgs(os.Args))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()
	logger.Info("starting ledger api", "version", version, "commit", commit, "date", date, "driver", cfg.DBDriver)

	if cfg.MetricsAddr != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, cfg.AppEnv, cfg.PromNamespace); err != nil {
			logger.Error("failed registering metrics", "error", err)
			return
		}
		go prom.ListenAndServer(cfg.MetricsAddr, cfg.MetricsURI)
	}

	db, err := app.OpenStore(cfg)
	if err != nil {
		logger.Error("failed opening store", "error", err)
		return
	}
	defer db.Close()

	idem, err := app.OpenIdempotency(cfg)
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	s := app.NewEngine(cfg, db, idem)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(cfg.HttpListenAddr); err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}
