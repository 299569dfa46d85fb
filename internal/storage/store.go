// Package storage persists snapshot collections as JSON blobs keyed by collection name.
package storage

import (
	"context"
	"errors"
)

// BlobStore is a small key-value store for snapshot collections.
//
// Every Save gets a new, strictly increasing revision shared by all keys it
// writes. Load returns every stored key and the highest revision seen.
type BlobStore interface {
	Load(ctx context.Context) (map[string][]byte, uint64, error)
	Save(ctx context.Context, blobs map[string][]byte) (uint64, error)
	Close() error
}

var ErrClosed = errors.New("storage closed")
