package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/logger"
	"sales-dashboard/internal/pivot"
	generate_excel "sales-dashboard/internal/service/generate-excel"
	"sales-dashboard/internal/service/loader"
	"sales-dashboard/internal/service/report"
	"sales-dashboard/internal/storage/mysql"
)

func main() {
	cfg := config.MustConfig()

	log := logger.Setup(cfg.Env, "errors.log")

	keyOrder, err := pivot.ParseKeyOrder(cfg.Report.KeyOrder)
	if err != nil {
		log.Error("invalid report key order", slog.String("error", err.Error()))
		os.Exit(1)
	}

	storage, err := mysql.New(cfg.DB)
	if err != nil {
		log.Error("failed to open db", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	reportService := report.NewService(storage, log, keyOrder)
	deps := services{
		storage: storage,
		report:  reportService,
		excel:   generate_excel.NewGenerateService(reportService),
		loader:  loader.NewService(storage, log, cfg.Loader.BatchSize),
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, deps),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: max(cfg.HTTPServer.Timeout, cfg.Report.ExcelTimeout, cfg.Loader.Timeout),
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server started", slog.String("address", cfg.Address), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
}
