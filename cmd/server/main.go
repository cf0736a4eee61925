package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/osvalr/cantina/internal/auth"
	"github.com/osvalr/cantina/internal/config"
	"github.com/osvalr/cantina/internal/repository/mongodb"
	"github.com/osvalr/cantina/internal/repository/sheets"
	"github.com/osvalr/cantina/internal/scheduler"
	"github.com/osvalr/cantina/internal/server/handlers"
	"github.com/osvalr/cantina/internal/server/router"
	authsvc "github.com/osvalr/cantina/internal/service/auth"
	"github.com/osvalr/cantina/internal/service/catalog"
	"github.com/osvalr/cantina/internal/service/orders"
	reportingsvc "github.com/osvalr/cantina/internal/service/reporting"
	"github.com/osvalr/cantina/pkg/clients/webhook"
	"github.com/osvalr/cantina/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)

	catalogSvc := catalog.NewService(store, baseLogger.Named("svc.catalog"))
	ordersSvc := orders.NewService(store, baseLogger.Named("svc.orders"))
	reportingSvc := reportingsvc.NewService(store, baseLogger.Named("svc.reporting"))
	accountSvc := authsvc.NewService(store, tokens, baseLogger.Named("svc.auth"))

	// Optional integrations for the nightly summary.
	var notifier webhook.Notifier
	if cfg.Webhook.URL != "" {
		notifier = webhook.NewClient(cfg.Webhook.URL)
		baseLogger.Info("summary webhook enabled")
	}
	var exporter sheets.Exporter
	if cfg.SheetsEnabled() {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("summary sheet export enabled")
	}

	engine := router.New(router.Handlers{
		Auth:    handlers.NewAuthHandler(accountSvc, baseLogger.Named("handlers.auth")),
		Catalog: handlers.NewCatalogHandler(catalogSvc, baseLogger.Named("handlers.catalog")),
		Staff:   handlers.NewStaffHandler(catalogSvc, baseLogger.Named("handlers.staff")),
		Orders:  handlers.NewOrdersHandler(ordersSvc, reportingSvc, baseLogger.Named("handlers.orders")),
		Reports: handlers.NewReportsHandler(reportingSvc, baseLogger.Named("handlers.reports")),
	}, tokens, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, notifier, exporter, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
