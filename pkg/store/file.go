package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/matzehuels/sidedock/pkg/errors"
	"github.com/matzehuels/sidedock/pkg/observability"
)

const backendFile = "file"

// FileStore keeps layout documents as JSON files in a directory.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file store in dir, creating it if needed. An
// empty dir selects [DefaultDir].
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// DefaultDir returns the layout directory under the XDG data home
// (~/.local/share/sidedock/layouts).
func DefaultDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "sidedock", "layouts"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "sidedock", "layouts"), nil
}

// Dir returns the directory the store writes to.
func (s *FileStore) Dir() string { return s.dir }

// Load reads the document saved for id.
func (s *FileStore) Load(ctx context.Context, id string) (*Document, error) {
	start := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		observability.Store().OnLoad(ctx, backendFile, false, time.Since(start))
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read layout file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "parse layout %s", id)
	}
	observability.Store().OnLoad(ctx, backendFile, true, time.Since(start))
	return &doc, nil
}

// Save writes doc, replacing any previous document for the station.
func (s *FileStore) Save(ctx context.Context, doc *Document) (err error) {
	start := time.Now()
	var data []byte
	defer func() { observability.Store().OnSave(ctx, backendFile, len(data), time.Since(start), err) }()

	if err := errors.ValidateStationID(doc.Station); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err = json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	path := s.path(doc.Station)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create layout dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write layout file: %w", err)
	}
	return nil
}

// Delete removes the document saved for id.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		err = nil
	}
	if err != nil {
		err = fmt.Errorf("remove layout file: %w", err)
	}
	observability.Store().OnDelete(ctx, backendFile, err)
	return err
}

// Close does nothing for the file store.
func (s *FileStore) Close() error {
	return nil
}

// path converts a station ID to a file path. The first two hex characters
// of the hash select a subdirectory.
func (s *FileStore) path(id string) string {
	hash := Hash([]byte(id))
	return filepath.Join(s.dir, hash[:2], hash[2:]+".json")
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
