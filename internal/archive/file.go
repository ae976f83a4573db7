package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBlob keeps the collection in one local file. Writes go to a temp file
// in the same directory which is synced and renamed over the target.
type FileBlob struct {
	Path string
}

// NewFileStore creates a Store backed by the file at path.
func NewFileStore(path string) *BlobStore {
	return NewBlobStore("file", &FileBlob{Path: path})
}

func (b *FileBlob) Get(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errBlobNotFound
	}
	return data, err
}

func (b *FileBlob) Put(ctx context.Context, data []byte) error {
	dir := filepath.Dir(b.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.Path); err != nil {
		return fmt.Errorf("replace %s: %w", b.Path, err)
	}
	committed = true
	return nil
}

func (b *FileBlob) Delete(ctx context.Context) error {
	err := os.Remove(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
