// Package cli provides common initialization shared by cmd/cashflow,
// cmd/backup-worker and cmd/report-export.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"cashflow/internal/backend"
	"cashflow/internal/backup"
	"cashflow/internal/config"
	applog "cashflow/internal/log"
	sheetsgoogle "cashflow/internal/sheets/google"
	"cashflow/internal/storage"
)

// SetupLogger builds the process logger from LOG_LEVEL / LOG_FORMAT and
// makes it the slog default.
func SetupLogger(cfg *config.Config) *applog.Logger {
	lc := applog.DefaultConfig()
	lc.Component = applog.ComponentApp
	if cfg != nil {
		lc.Level = applog.ParseLevel(cfg.LogLevel)
		lc.Format = cfg.LogFormat
	}
	logger := applog.New(lc)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenBackend opens the configured blob store or exits the process.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *applog.Logger) storage.BlobStore {
	l := logger.WithComponent(applog.ComponentBackend).Slog()
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		l.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	store, err := backend.Open(ctx, bc, l)
	if err != nil {
		l.Error("Failed to open backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return store
}

// GoogleOptions returns the client options for the configured Google credentials.
// With none configured, Application Default Credentials apply.
func GoogleOptions(cfg *config.Config) []option.ClientOption {
	switch {
	case cfg.GoogleCredentialsJSON != "":
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.GoogleCredentialsJSON))}
	case cfg.GoogleCredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(cfg.GoogleCredentialsFile)}
	}
	return nil
}

// OAuthConfig reads the OAuth client from GOOGLE_OAUTH_CLIENT_JSON or
// GOOGLE_OAUTH_CLIENT_FILE, scoped to Sheets.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	var (
		b   []byte
		err error
	)
	switch {
	case cfg.GoogleOAuthClientJSON != "":
		b = []byte(cfg.GoogleOAuthClientJSON)
	case cfg.GoogleOAuthClientFile != "":
		b, err = os.ReadFile(cfg.GoogleOAuthClientFile)
		if err != nil {
			return nil, fmt.Errorf("read oauth client file: %w", err)
		}
	default:
		return nil, errors.New("set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE")
	}
	oc, err := google.ConfigFromJSON(b, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	return oc, nil
}

func oauthTokenSource(ctx context.Context, cfg *config.Config) (oauth2.TokenSource, error) {
	oc, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(cfg.GoogleOAuthTokenFile)
	if err != nil {
		return nil, fmt.Errorf("open oauth token: %w", err)
	}
	defer f.Close()

	var tok oauth2.Token
	if err := json.NewDecoder(f).Decode(&tok); err != nil {
		return nil, fmt.Errorf("decode oauth token: %w", err)
	}
	return oc.TokenSource(ctx, &tok), nil
}

// NewSheetsWriter connects the monthly report writer. A saved OAuth token
// wins over service account credentials. Returns nil, nil when no
// spreadsheet is configured.
func NewSheetsWriter(ctx context.Context, cfg *config.Config) (*sheetsgoogle.Client, error) {
	if cfg.GoogleSpreadsheetID == "" {
		return nil, nil
	}
	opts := sheetsgoogle.Options{
		SpreadsheetID: cfg.GoogleSpreadsheetID,
		SheetName:     cfg.GoogleSheetName,
	}
	if cfg.GoogleOAuthTokenFile != "" {
		ts, err := oauthTokenSource(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return sheetsgoogle.New(ctx, opts, option.WithTokenSource(ts))
	}
	opts.CredentialsJSON = cfg.GoogleCredentialsJSON
	opts.CredentialsFile = cfg.GoogleCredentialsFile
	return sheetsgoogle.New(ctx, opts)
}

// BuildBackupTargets creates every configured backup destination. The
// returned close func releases the GCS client when one was opened.
func BuildBackupTargets(ctx context.Context, cfg *config.Config) ([]backup.Target, func(), error) {
	var (
		targets []backup.Target
		closers []func() error
	)
	if cfg.BackupFilePath != "" {
		targets = append(targets, backup.NewFileTarget(cfg.BackupFilePath))
	}
	if cfg.BackupGCSBucket != "" {
		gcs, err := backup.NewGCSTarget(ctx, cfg.BackupGCSBucket, cfg.BackupGCSObject, GoogleOptions(cfg)...)
		if err != nil {
			return nil, nil, fmt.Errorf("gcs backup target: %w", err)
		}
		targets = append(targets, gcs)
		closers = append(closers, gcs.Close)
	}
	if cfg.BackupGistID != "" {
		targets = append(targets, backup.NewGistTarget(ctx, cfg.BackupGistID, cfg.BackupGistToken))
	}
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}
	return targets, closeAll, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *slog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup finished.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
