package main

import (
	"context"
	"flag"
	"os"

	"cashflow/internal/cli"
	"cashflow/internal/services"
)

func main() {
	csvPath := flag.String("csv", "", "write the report as CSV to this path (use - for stdout) instead of Google Sheets")
	flag.Parse()

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)
	ctx := context.Background()

	store := cli.OpenBackend(ctx, cfg, logger)
	defer store.Close()

	opts := []services.Option{services.WithLogger(logger)}
	if *csvPath == "" {
		writer, err := cli.NewSheetsWriter(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		if writer == nil {
			logger.Error("GOOGLE_SPREADSHEET_ID is not set; pass -csv to export locally")
			os.Exit(1)
		}
		opts = append(opts, services.WithReportWriter(writer))
	}

	svc := services.NewBudgetService(store, opts...)
	if err := svc.Load(ctx); err != nil {
		logger.Error("Failed to load snapshot", "error", err)
		os.Exit(1)
	}

	if *csvPath != "" {
		out := os.Stdout
		if *csvPath != "-" {
			f, err := os.Create(*csvPath)
			if err != nil {
				logger.Error("Failed to create CSV file", "error", err, "path", *csvPath)
				os.Exit(1)
			}
			defer f.Close()
			out = f
		}
		if err := services.WriteMonthlyCSV(out, svc.MonthlyReport()); err != nil {
			logger.Error("Failed to write CSV", "error", err)
			os.Exit(1)
		}
		return
	}

	ref, err := svc.ExportMonthlyReport(ctx)
	if err != nil {
		logger.Error("Report export failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Report exported", "range", ref)
}
