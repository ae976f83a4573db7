package archive

import (
	"context"
	"slices"
	"sync"
)

// MemoryBlob keeps the encoded collection in process. It runs through the
// same codec as the durable backends, so tests see identical round-trips.
type MemoryBlob struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

// NewMemoryStore creates an in-process Store.
func NewMemoryStore() *BlobStore {
	return NewBlobStore("memory", &MemoryBlob{})
}

func (b *MemoryBlob) Get(ctx context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.set {
		return nil, errBlobNotFound
	}
	return slices.Clone(b.data), nil
}

func (b *MemoryBlob) Put(ctx context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data, b.set = slices.Clone(data), true
	return nil
}

func (b *MemoryBlob) Delete(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data, b.set = nil, false
	return nil
}
