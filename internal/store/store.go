package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jmalden/weatherdesk/internal/models"
)

// Store persists the single app-state record. Load returns nil when
// nothing usable is stored: absent, corrupt, or older than the TTL.
// Corrupt and expired entries are erased as a side effect so a later
// Load does not resurrect them.
type Store interface {
	Save(rec models.Record) error
	Load() (*models.Record, error)
}

// FileStore implements Store as one JSON blob on disk, the durable
// analog of a single well-known key-value entry. Not safe for
// concurrent use; the controller serializes access.
type FileStore struct {
	path  string
	ttl   time.Duration
	clock clockwork.Clock
}

// NewFileStore creates a FileStore writing to path with the given TTL.
func NewFileStore(path string, ttl time.Duration) *FileStore {
	return NewFileStoreWithClock(path, ttl, clockwork.NewRealClock())
}

// NewFileStoreWithClock creates a FileStore with an injected clock for
// expiry decisions.
func NewFileStoreWithClock(path string, ttl time.Duration, clock clockwork.Clock) *FileStore {
	return &FileStore{path: path, ttl: ttl, clock: clock}
}

// Save writes the record, creating parent directories as needed.
func (s *FileStore) Save(rec models.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: marshal record: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: create state directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("store: write state file: %w", err)
	}
	return nil
}

// Load reads the record. Returns (nil, nil) on miss, and erases the
// entry first when it is corrupt or past the TTL.
func (s *FileStore) Load() (*models.Record, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: read state file: %w", err)
	}

	var rec models.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		_ = os.Remove(s.path)
		return nil, nil
	}

	if s.expired(rec) {
		_ = os.Remove(s.path)
		return nil, nil
	}

	return &rec, nil
}

// expired reports whether the record's age exceeds the TTL. A zero
// write timestamp counts as expired; a partially usable record is
// never returned.
func (s *FileStore) expired(rec models.Record) bool {
	if rec.SavedAt.IsZero() {
		return true
	}
	return s.clock.Now().Sub(rec.SavedAt) > s.ttl
}
