package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cashflow/internal/storage"
)

var _ storage.BlobStore = (*Store)(nil)

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s := New()

	in := map[string][]byte{"goals": []byte(`[]`)}
	rev, err := s.Save(ctx, in)
	if err != nil || rev != 1 {
		t.Fatalf("Save() = %d, %v", rev, err)
	}
	in["goals"][0] = 'X'

	blobs, rev, err := s.Load(ctx)
	if err != nil || rev != 1 || string(blobs["goals"]) != `[]` {
		t.Fatalf("Load() = %q, %d, %v", blobs, rev, err)
	}
}

func TestStore_Closed(t *testing.T) {
	s := New()
	s.Close()
	if _, err := s.Save(context.Background(), nil); !errors.Is(err, storage.ErrClosed) {
		t.Fatalf("Save() after Close error = %v", err)
	}
	if _, _, err := s.Load(context.Background()); !errors.Is(err, storage.ErrClosed) {
		t.Fatalf("Load() after Close error = %v", err)
	}
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(`{"transactions":[{"id":"seed"}],"goals":[]}`), 0644); err != nil {
		t.Fatal(err)
	}
	blobs, rev, err := NewFromFile(path).Load(context.Background())
	if err != nil || rev != 1 || string(blobs["transactions"]) != `[{"id":"seed"}]` {
		t.Fatalf("Load() = %q, %d, %v", blobs, rev, err)
	}

	blobs, rev, _ = NewFromFile(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background())
	if len(blobs) != 0 || rev != 0 {
		t.Fatalf("missing seed Load() = %q, %d", blobs, rev)
	}
}
