package publish

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/woograb/woograb/internal/logger"
)

// Entry records one successfully uploaded asset.
type Entry struct {
	URL      string `json:"url"`
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

// Store is the content-addressed upload cache: a JSON file mapping the
// SHA-1 of an asset's bytes to its remote location. Entries are never
// evicted, so a re-run skips every upload that already succeeded.
type Store struct {
	path    string
	entries map[string]Entry
}

// OpenStore loads the cache file at path. A missing or unreadable file
// yields an empty cache.
func OpenStore(path string) *Store {
	s := &Store{
		path:    path,
		entries: make(map[string]Entry),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("upload cache unreadable, starting empty", "path", path, "error", err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		logger.Warn("upload cache corrupt, starting empty", "path", path, "error", err)
		s.entries = make(map[string]Entry)
	}
	return s
}

// Get looks up a content hash.
func (s *Store) Get(hash string) (Entry, bool) {
	e, ok := s.entries[hash]
	return e, ok
}

// Put records an entry and persists the whole cache immediately, so an
// interrupted batch keeps the uploads that already went through.
func (s *Store) Put(hash string, e Entry) error {
	s.entries[hash] = e

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode upload cache: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write upload cache %s: %w", s.path, err)
	}
	return nil
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// HashBytes returns the hex SHA-1 of data, the cache key for an asset.
func HashBytes(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}
