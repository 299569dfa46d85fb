package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between concurrent saves.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("SQLite schema ready", "db_path", dbPath, "schema_version", version)

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements BlobStore.
func (r *SQLiteRepository) Load(ctx context.Context) (map[string][]byte, uint64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value, revision FROM snapshot_blobs`)
	if err != nil {
		return nil, 0, fmt.Errorf("query blobs: %w", err)
	}
	defer rows.Close()

	blobs := make(map[string][]byte)
	var maxRev uint64
	for rows.Next() {
		var (
			key   string
			value []byte
			rev   int64
		)
		if err := rows.Scan(&key, &value, &rev); err != nil {
			return nil, 0, fmt.Errorf("scan blob: %w", err)
		}
		blobs[key] = value
		if uint64(rev) > maxRev {
			maxRev = uint64(rev)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate blobs: %w", err)
	}
	return blobs, maxRev, nil
}

// Save implements BlobStore. All keys are written in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, blobs map[string][]byte) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(revision), 0) FROM snapshot_blobs`).Scan(&current); err != nil {
		return 0, fmt.Errorf("read revision: %w", err)
	}
	rev := current + 1

	keys := make([]string, 0, len(blobs))
	for k := range blobs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_blobs (key, value, revision, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET
				value = excluded.value,
				revision = excluded.revision,
				updated_at = excluded.updated_at`,
			k, blobs[k], rev)
		if err != nil {
			return 0, fmt.Errorf("upsert %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot blobs saved to SQLite", "keys", keys, "revision", rev)
	return uint64(rev), nil
}
