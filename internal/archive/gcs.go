package archive

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
)

// GCSBlob keeps the collection in one Google Cloud Storage object. An object
// write only becomes visible when the writer closes successfully.
type GCSBlob struct {
	client *gcs.Client
	bucket string
	object string
}

// NewGCSStore creates a GCS-backed Store.
// It uses Application Default Credentials (works with Workload Identity, SA keys, gcloud auth).
func NewGCSStore(ctx context.Context, bucket, object string) (*BlobStore, func() error, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("create gcs client: %w", err)
	}
	blob := &GCSBlob{client: client, bucket: bucket, object: object}
	return NewBlobStore("gcs", blob), client.Close, nil
}

func (b *GCSBlob) Get(ctx context.Context) ([]byte, error) {
	r, err := b.client.Bucket(b.bucket).Object(b.object).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, errBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("gcs read %s: %w", b.object, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (b *GCSBlob) Put(ctx context.Context, data []byte) error {
	w := b.client.Bucket(b.bucket).Object(b.object).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("gcs write %s: %w", b.object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close %s: %w", b.object, err)
	}
	return nil
}

func (b *GCSBlob) Delete(ctx context.Context) error {
	err := b.client.Bucket(b.bucket).Object(b.object).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("gcs delete %s: %w", b.object, err)
	}
	return nil
}
