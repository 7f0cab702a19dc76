// cmd/report-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solar-reports/internal/common/config"
	apperrors "solar-reports/internal/common/errors"
	"solar-reports/internal/common/logger"
	"solar-reports/internal/common/observability"
	"solar-reports/internal/report"
	"solar-reports/internal/store"

	gr "solar-reports/internal/workers/report/generate-report"
	sf "solar-reports/internal/workers/store/submit-feedback"
	upp "solar-reports/internal/workers/store/update-plant-price"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "report-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting report server",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("renderer", cfg.Renderer.Mode),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel exporter unavailable, continuing without otel metrics", zap.Error(err))
	}
	defer obs.Shutdown()

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	storeCfg := cfg.Store.Resolve(wd)

	pipeline := report.Build(cfg, obs, log)
	errHandler := apperrors.NewErrorHandler(log)

	reportCfg := gr.LoadConfig()
	priceCfg := upp.LoadConfig(storeCfg.DatabasePath, storeCfg.DatabaseSchema)
	feedbackCfg := sf.LoadConfig(storeCfg.FeedbackPath, storeCfg.FeedbackSchema)
	for name, v := range map[string]interface{ Validate() error }{
		gr.TaskType:  reportCfg,
		upp.TaskType: priceCfg,
		sf.TaskType:  feedbackCfg,
	} {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("invalid %s config: %w", name, err)
		}
	}

	appServer := &http.Server{
		Addr: cfg.Server.Address,
		Handler: newAppMux(handlers{
			report:   gr.NewHandler(reportCfg, pipeline, errHandler, log),
			price:    upp.NewHandler(priceCfg, store.NewValidatedStore("plants", log), errHandler, log),
			feedback: sf.NewHandler(feedbackCfg, store.NewValidatedStore("feedback", log), log),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	opsServer := &http.Server{
		Addr:              cfg.Server.MetricsAddress,
		Handler:           newOpsMux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range []*http.Server{appServer, opsServer} {
		srv := srv
		g.Go(func() error {
			zapLog.Info("HTTP server listening", zap.String("address", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		zapLog.Info("Shutdown signal received, draining requests...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(appServer.Shutdown(shutdownCtx), opsServer.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		zapLog.Error("report server stopped with error", zap.Error(err))
		return err
	}
	zapLog.Info("Report server stopped")
	return nil
}
