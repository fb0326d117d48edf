package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is the storage client the gateway handlers talk to. It is bound to
// a single container at construction and is safe for concurrent use.
type Store interface {
	// GetContainerProperties reads the container's metadata. A nil error
	// means the container exists and the caller is authorized to see it.
	GetContainerProperties(ctx context.Context) error

	// ListBlobs enumerates every blob in the container, draining any
	// backend pagination, in the order the backend returns them.
	ListBlobs(ctx context.Context) ([]BlobInfo, error)

	// UploadBlob writes content under name, replacing any existing blob.
	UploadBlob(ctx context.Context, name string, content []byte) error
}

// tempPrefix marks in-flight uploads so listings skip them.
const tempPrefix = ".upload-"

// FileStore is a filesystem Store for running the gateway without a cloud
// account. The container lives at <baseDir>/blob/<account>/<container>.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore creates the container directory if needed and returns a Store over it.
func NewFileStore(baseDir, account, containerName string) (*FileStore, error) {
	dir := filepath.Join(baseDir, "blob", account, containerName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create container directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the container directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) GetContainerProperties(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("container %s does not exist", filepath.Base(s.dir))
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("container %s is not a directory", filepath.Base(s.dir))
	}
	return nil
}

func (s *FileStore) ListBlobs(ctx context.Context) ([]BlobInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.GetContainerProperties(ctx); err != nil {
		return nil, err
	}

	results := make([]BlobInfo, 0)
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), tempPrefix) {
			return nil
		}

		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		modified := info.ModTime().UTC()
		results = append(results, BlobInfo{
			Name:         filepath.ToSlash(rel),
			Size:         info.Size(),
			LastModified: &modified,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *FileStore) UploadBlob(ctx context.Context, name string, content []byte) error {
	if name == "" || !filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("invalid blob name %q", name)
	}
	if err := s.GetContainerProperties(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}

	// Write then rename so a concurrent listing never sees a partial blob.
	tmp, err := os.CreateTemp(filepath.Dir(target), tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to commit blob: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
