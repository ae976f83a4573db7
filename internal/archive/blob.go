package archive

import (
	"context"
	"errors"

	"github.com/deliberate/deliberate/pkg/decision"
)

// errBlobNotFound is returned by Blob.Get when nothing has been written.
var errBlobNotFound = errors.New("blob not found")

// Blob is a single named object holding the encoded collection.
type Blob interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
}

// BlobStore implements Store over any single-object backend.
type BlobStore struct {
	backend string
	blob    Blob
}

// NewBlobStore wraps a blob. backend names it in errors.
func NewBlobStore(backend string, blob Blob) *BlobStore {
	return &BlobStore{backend: backend, blob: blob}
}

func (s *BlobStore) Load(ctx context.Context) ([]decision.Deliberation, error) {
	data, err := s.blob.Get(ctx)
	if errors.Is(err, errBlobNotFound) {
		return []decision.Deliberation{}, nil
	}
	if err != nil {
		return nil, opError(s.backend, "load", err)
	}
	out, err := Decode(data)
	if err != nil {
		return nil, opError(s.backend, "load", err)
	}
	return out, nil
}

func (s *BlobStore) Save(ctx context.Context, deliberations []decision.Deliberation) error {
	data, err := Encode(deliberations)
	if err != nil {
		return opError(s.backend, "save", err)
	}
	return opError(s.backend, "save", s.blob.Put(ctx, data))
}

func (s *BlobStore) Clear(ctx context.Context) error {
	return opError(s.backend, "clear", s.blob.Delete(ctx))
}
