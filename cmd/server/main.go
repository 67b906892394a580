package main

import (
	"context"
	"errors"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vncsmyrnk/swingmap/internal/adapters/cache"
	"github.com/vncsmyrnk/swingmap/internal/adapters/handler/http"
	"github.com/vncsmyrnk/swingmap/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/swingmap/internal/adapters/rules"
	"github.com/vncsmyrnk/swingmap/internal/config"
	"github.com/vncsmyrnk/swingmap/internal/core/ports"
	"github.com/vncsmyrnk/swingmap/internal/core/services"
	"github.com/vncsmyrnk/swingmap/internal/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.ServerEnv, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	reportCache, err := cache.New(cfg, db, registry)
	if err != nil {
		zl.Fatal("cache setup failed", zap.Error(err))
	}

	var classifier ports.Classifier = rules.Default()
	if cfg.ApprovalRulesPath != "" {
		watcher, err := rules.NewWatcher(cfg.ApprovalRulesPath, zl)
		if err != nil {
			zl.Fatal("approval rules invalid", zap.Error(err))
		}
		watcher.Start(ctx)
		defer watcher.Stop()
		classifier = watcher
	}

	// Initialize Repositories
	resultRepo := postgres.NewElectionResultRepository(db)
	demographicRepo := postgres.NewDemographicRepository(db)
	messageRepo := postgres.NewMessageRepository(db)

	// Initialize Services
	swingSvc := services.NewSwingService(resultRepo, reportCache, cfg.CacheTTL, zl)
	demographicSvc := services.NewDemographicService(demographicRepo, reportCache, cfg.CacheTTL, zl)
	messageSvc := services.NewMessageService(messageRepo, classifier, zl)

	handler := http.NewHandler(
		http.NewElectionHandler(swingSvc, demographicSvc, zl),
		http.NewMessageHandler(messageSvc, zl),
		http.RouterConfig{Logger: zl, Registry: registry},
	)
	server := &stdhttp.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("listening", zap.String("addr", cfg.ServerAddr), zap.String("cache", cfg.CacheBackend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Fatal("shutdown failed", zap.Error(err))
	}
}
