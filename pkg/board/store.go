package board

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// =============================================================================
// Store Interface
// =============================================================================

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates no board exists under the requested ID.
	ErrNotFound = errors.New("board not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("board store is closed")
)

// Store abstracts board persistence.
//
// Implementations must be safe for concurrent use. Save is an upsert:
// an existing board with the same ID is replaced.
type Store interface {
	// Save persists a board, replacing any existing board with the same ID.
	Save(ctx context.Context, b Board) error

	// Load retrieves a board by ID. Returns ErrNotFound if absent.
	Load(ctx context.Context, id string) (Board, error)

	// List returns summaries of all stored boards, sorted by name.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes a board by ID. Deleting an absent board is a no-op.
	Delete(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}

// Summary is a lightweight listing entry for a stored board.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	NodeCount int    `json:"node_count"`
}

// =============================================================================
// File-Based Store
// =============================================================================

// FileStore persists boards as JSON files in a directory, one file per
// board keyed by board ID.
type FileStore struct {
	mu     sync.RWMutex
	dir    string
	closed bool
}

// NewFileStore creates a file-based board store rooted at dir.
// The directory is created if it does not exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create board directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes the board to <dir>/<id>.json, replacing any previous version.
func (s *FileStore) Save(ctx context.Context, b Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if b.ID == "" {
		return fmt.Errorf("save board: empty id")
	}
	return WriteFile(b, s.path(b.ID))
}

// Load reads a board by ID.
func (s *FileStore) Load(ctx context.Context, id string) (Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Board{}, ErrStoreClosed
	}
	b, err := ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Board{}, ErrNotFound
		}
		return Board{}, err
	}
	return b, nil
}

// List walks the store directory and returns a summary per board file,
// sorted by board name.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read board directory: %w", err)
	}

	summaries := make([]Summary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		b, err := ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			// Skip unreadable files rather than failing the whole listing.
			continue
		}
		summaries = append(summaries, Summary{
			ID:        b.ID,
			Name:      b.Name,
			NodeCount: len(b.Nodes),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries, nil
}

// Delete removes a board file. Absent boards are a no-op.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if err := os.Remove(s.path(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete board %s: %w", id, err)
	}
	return nil
}

// Close marks the store closed. Subsequent operations fail.
func (s *FileStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
