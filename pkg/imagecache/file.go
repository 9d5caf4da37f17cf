package imagecache

import (
	"context"
	"os"
	"path/filepath"
)

// FileStore persists image payloads as files in a directory, keyed by a
// SHA-256 hash of the locator. This design ensures safe file names (no
// filesystem special characters regardless of what the URL contains) and
// survives across sessions.
//
// Multiple FileStore instances, even in different processes, can safely
// share the same directory: writes are whole-file overwrites and the
// filesystem provides atomic renames at this granularity.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based store in the given directory.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Get retrieves an image payload from the store.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores an image payload, overwriting any existing entry.
func (s *FileStore) Set(ctx context.Context, key string, data []byte) error {
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Delete removes an entry from the store.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for file stores.
func (s *FileStore) Close() error {
	return nil
}

// Dir returns the absolute path to the store directory.
func (s *FileStore) Dir() string { return s.dir }

// path converts a store key to a file path.
// Uses a two-character hash prefix as a subdirectory to avoid piling every
// entry into one directory.
func (s *FileStore) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(s.dir, hash[:2], hash[2:]+".img")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
