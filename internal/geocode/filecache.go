package geocode

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CacheEntry is one persisted geocode result
type CacheEntry struct {
	Coords  string `json:"coords"`
	Country string `json:"country"`
}

// FileCache persists geocode results as a JSON mapping from location name
// to entry. Updates are read-modify-write under a process-wide lock and
// the file is rewritten atomically (temp file + rename).
type FileCache struct {
	mu   sync.Mutex
	path string
}

// NewFileCache creates a cache backed by the given file path
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// Load reads the full cache. A missing file is not an error and yields an
// empty mapping.
func (c *FileCache) Load() (map[string]CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readLocked()
}

// Put merges one entry into the cache file
func (c *FileCache) Put(name string, entry CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.readLocked()
	if err != nil {
		// A corrupt cache should not block new writes; start over
		entries = make(map[string]CacheEntry)
	}
	entries[name] = entry

	return c.writeLocked(entries)
}

func (c *FileCache) readLocked() (map[string]CacheEntry, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return make(map[string]CacheEntry), nil
	}
	if err != nil {
		return nil, err
	}

	entries := make(map[string]CacheEntry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("corrupt geocode cache %s: %w", c.path, err)
	}
	return entries, nil
}

func (c *FileCache) writeLocked(entries map[string]CacheEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), "geocode-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, c.path)
}
