package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"cashflow/internal/storage"
)

var _ storage.BlobStore = (*Store)(nil)

// Runs only when MONGODB_TEST_URI points at a disposable server.
func TestStore_Integration(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := New(ctx, uri, "cashflow_test_"+time.Now().Format("150405"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = s.blobs.Database().Drop(ctx)
		s.Close()
	}()

	rev, err := s.Save(ctx, map[string][]byte{"goals": []byte(`[]`)})
	if err != nil || rev != 1 {
		t.Fatalf("Save() = %d, %v", rev, err)
	}
	blobs, got, err := s.Load(ctx)
	if err != nil || got != 1 || string(blobs["goals"]) != `[]` {
		t.Fatalf("Load() = %q, %d, %v", blobs, got, err)
	}
}
