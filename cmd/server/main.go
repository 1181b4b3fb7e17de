package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"palantir/internal/commons"
	"palantir/internal/config"
	"palantir/internal/dataset"
	"palantir/internal/home"
	"palantir/internal/infrastructure/logger"
	"palantir/internal/infrastructure/mysql"
	"palantir/internal/insights"
	"palantir/internal/orders"
	"palantir/internal/render"
	"palantir/internal/revenue"
	"palantir/internal/server"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	manifest, err := commons.LoadManifest(cfg.Data.Manifest)
	if err != nil {
		zapLogger.Fatal("loading dataset manifest", zap.Error(err))
	}
	if cfg.Data.Source != "" {
		manifest.Source = cfg.Data.Source
	}

	var loader dataset.Loader
	switch manifest.Source {
	case "mysql":
		db, err := mysql.NewConnection(cfg.Database)
		if err != nil {
			zapLogger.Fatal("connecting to database", zap.Error(err))
		}
		defer db.Close()
		zapLogger.Info("database connected")
		loader = dataset.NewSQLLoader(db, zapLogger)
	default:
		loader = dataset.NewCSVLoader(manifest, zapLogger)
	}

	store := dataset.NewStore(loader, cfg.Data.CacheTTL, zapLogger)

	// A failed warm load is not fatal. The home page reports the empty
	// state and hosts the reload action.
	loadCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if _, err := store.Frames(loadCtx); err != nil {
		zapLogger.Warn("initial dataset load failed", zap.Error(err))
	}
	cancel()

	renderer := render.New(zapLogger)

	homeCtrl := home.NewModule(store, renderer, zapLogger)
	insightsCtrl := insights.NewModule(store, renderer, zapLogger)
	revenueCtrl := revenue.NewModule(store, renderer, zapLogger)
	ordersCtrl := orders.NewModule(store, renderer, zapLogger)

	router := server.NewRouter(homeCtrl, insightsCtrl, revenueCtrl, ordersCtrl, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
