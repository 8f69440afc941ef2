// Package jsonfile is the file-backed storage adapter: each collection is one
// JSON array on disk, read and rewritten whole. A process-wide mutex plus
// atomic rename on write give the compare-and-update guarantee the original
// flat-file design lacked.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/renthub/renthub/repository"
)

const (
	bookingsFile = "bookings.json"
	usersFile    = "users.json"
)

// Store bundles the three file-backed repositories sharing one data
// directory and one lock.
type Store struct {
	dataDir string
	mu      sync.Mutex
}

// NewStore opens (creating if needed) a data directory and returns the
// repository bundle over it.
func NewStore(dataDir string) (*repository.Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dataDir, err)
	}
	s := &Store{dataDir: dataDir}
	return &repository.Store{
		Bookings: &BookingRepository{s: s},
		Vehicles: &VehicleRepository{s: s},
		Users:    &UserRepository{s: s},
	}, nil
}

func (s *Store) path(file string) string {
	return filepath.Join(s.dataDir, file)
}

// readAll decodes a whole collection file into out. A missing or empty file
// is an empty collection, not an error.
func (s *Store) readAll(file string, out interface{}) error {
	data, err := os.ReadFile(s.path(file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}
	return nil
}

// writeAll rewrites a whole collection file atomically (temp file + rename).
func (s *Store) writeAll(file string, in interface{}) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", file, err)
	}

	tmp := s.path(file) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	if err := os.Rename(tmp, s.path(file)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", file, err)
	}
	return nil
}
