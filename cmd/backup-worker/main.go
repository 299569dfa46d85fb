package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"cashflow/internal/amqp"
	"cashflow/internal/cli"
	applog "cashflow/internal/log"
	"cashflow/internal/worker"
)

func main() {
	restore := flag.String("restore", "", "restore storage from the named backup target (file, gcs, gist) and exit")
	flag.Parse()

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg).WithComponent(applog.ComponentWorker)

	logger.Info("Starting backup worker")
	ctx := context.Background()

	if !cfg.HasBackupTargets() {
		logger.Error("No backup target configured; set BACKUP_FILE_PATH, BACKUP_GCS_BUCKET or BACKUP_GIST_ID")
		os.Exit(1)
	}

	store := cli.OpenBackend(ctx, cfg, logger)
	defer store.Close()

	targets, closeTargets, err := cli.BuildBackupTargets(ctx, cfg)
	if err != nil {
		logger.Error("Failed to create backup targets", "error", err)
		os.Exit(1)
	}
	defer closeTargets()

	w := worker.NewBackupWorker(store, targets)

	if *restore != "" {
		rev, err := w.RestoreFrom(ctx, *restore)
		if err != nil {
			logger.Error("Restore failed", "error", err, "target", *restore)
			os.Exit(1)
		}
		logger.Info("Restore complete", "target", *restore, "revision", rev)
		return
	}

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required to consume snapshot notifications")
		os.Exit(1)
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	runCtx, done := cli.GracefulShutdown(logger.Slog(), 30*time.Second, nil)

	// Back up whatever changed while the worker was down.
	logger.Info("Performing startup backup check...")
	if err := w.Run(runCtx); err != nil {
		logger.Error("Startup backup failed", "error", err)
		// Don't exit - notifications will retry
	}

	go func() {
		if err := client.ConsumeSnapshotChanged(runCtx, w.HandleSnapshotChanged); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
		}
	}()

	cli.WaitForShutdown(runCtx, done)
	logger.Info("Backup worker stopped", "last_revision", w.LastRevision())
}
