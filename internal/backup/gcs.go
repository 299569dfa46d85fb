package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsTimeout = 2 * time.Minute

// GCSTarget keeps the snapshot as a single object in a bucket.
type GCSTarget struct {
	client *storage.Client
	bucket string
	object string
}

// NewGCSTarget uses Application Default Credentials unless opts say otherwise.
func NewGCSTarget(ctx context.Context, bucket, object string, opts ...option.ClientOption) (*GCSTarget, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSTarget{client: client, bucket: bucket, object: object}, nil
}

func (t *GCSTarget) Name() string { return "gcs" }

func (t *GCSTarget) Save(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, gcsTimeout)
	defer cancel()

	w := t.client.Bucket(t.bucket).Object(t.object).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write gs://%s/%s: %w", t.bucket, t.object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload: %w", err)
	}
	return nil
}

func (t *GCSTarget) Load(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, gcsTimeout)
	defer cancel()

	r, err := t.client.Bucket(t.bucket).Object(t.object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNoBackup
	}
	if err != nil {
		return nil, fmt.Errorf("open gs://%s/%s: %w", t.bucket, t.object, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}
	return data, nil
}

func (t *GCSTarget) Close() error {
	return t.client.Close()
}
