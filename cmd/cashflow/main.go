package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"cashflow/internal/advisor"
	"cashflow/internal/amqp"
	"cashflow/internal/cache"
	"cashflow/internal/cli"
	apphttp "cashflow/internal/http"
	applog "cashflow/internal/log"
	"cashflow/internal/rollover"
	"cashflow/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	ctx := context.Background()
	store := cli.OpenBackend(ctx, cfg, logger)
	defer store.Close()

	opts := []services.Option{
		services.WithLogger(logger.WithComponent(applog.ComponentLedger)),
		services.WithBaseCurrency(cfg.BaseCurrency),
	}

	// AMQP is optional: without it nothing triggers external backups.
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP, continuing without notifications", "error", err)
		} else {
			defer client.Close()
			opts = append(opts, services.WithPublisher(client))
			logger.Info("AMQP publisher enabled", "exchange", cfg.AMQPExchange)
		}
	}

	if cfg.GeminiAPIKey != "" {
		adv, err := advisor.NewGeminiAdvisor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to create advisor", "error", err)
		} else {
			opts = append(opts, services.WithAdvisor(adv))
			logger.Info("Advisor enabled", "model", cfg.GeminiModel)
		}
	}

	writer, err := cli.NewSheetsWriter(ctx, cfg)
	switch {
	case err != nil:
		logger.Error("Failed to initialize Google Sheets client", "error", err)
	case writer != nil:
		opts = append(opts, services.WithReportWriter(writer))
		logger.Info("Google Sheets report export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	dashboardCache := cache.NewLRUCache[services.Dashboard](cfg.CacheSize, cfg.CacheTTL)
	opts = append(opts, services.WithDashboardCache(dashboardCache))
	caches := cache.NewManager(logger.WithComponent(applog.ComponentCache).Slog())
	caches.Register(dashboardCache)

	svc := services.NewBudgetService(store, opts...)
	if err := svc.Load(ctx); err != nil {
		logger.Error("Failed to load snapshot", "error", err)
		os.Exit(1)
	}

	var scheduler *services.PeriodScheduler
	if cfg.AutoNewPeriod {
		mode, _ := rollover.ParseMode(cfg.AutoNewPeriodMode)
		scheduler = services.NewPeriodScheduler(svc, services.SchedulerConfig{
			Schedule: cfg.AutoNewPeriodSchedule,
			Mode:     mode,
		}, logger.Slog())
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, logger)

	runCtx, done := cli.GracefulShutdown(logger.Slog(), 30*time.Second, func(ctx context.Context) {
		if scheduler != nil {
			if err := scheduler.Stop(ctx); err != nil {
				logger.Warn("Scheduler stop error", "error", err)
			}
		}
		caches.Stop()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		svc.Close()
	})

	caches.StartCleanup(runCtx, 10*time.Minute)
	if scheduler != nil {
		if err := scheduler.Start(runCtx); err != nil {
			logger.Error("Failed to start period scheduler", "error", err)
			os.Exit(1)
		}
		// Catch up when the process was down at the scheduled time.
		scheduler.Tick(runCtx)
	}

	logger.Info("Starting cashflow server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(runCtx, done)
	logger.Info("Server stopped gracefully")
}
