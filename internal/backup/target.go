// Package backup copies the full snapshot document to external destinations.
package backup

import (
	"context"
	"errors"
)

// FileName is the document name used by targets that store named files.
const FileName = "cashflow_data.json"

var ErrNoBackup = errors.New("no backup found")

// Target stores and retrieves one snapshot document.
type Target interface {
	Name() string
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
}
