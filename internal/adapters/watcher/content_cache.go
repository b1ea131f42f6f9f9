package watcher

import (
	"os"
	"sync"
	"unique"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.ChangeFilter = (*ContentCache)(nil)

// ContentCache remembers the xxhash of every file it has been asked about.
// Editors often save a file without changing it; those writes are filtered out.
type ContentCache struct {
	mu     sync.Mutex
	hashes map[unique.Handle[string]]uint64
}

// NewContentCache creates an empty ContentCache.
func NewContentCache() *ContentCache {
	return &ContentCache{hashes: make(map[unique.Handle[string]]uint64)}
}

// Changed reports whether path's content differs from the last call for the
// same path. Unreadable paths (removed files, directories) always count as changed.
func (c *ContentCache) Changed(path string) bool {
	key := unique.Make(path)

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the watcher
	if err != nil {
		c.mu.Lock()
		delete(c.hashes, key)
		c.mu.Unlock()
		return true
	}
	sum := xxhash.Sum64(data)

	c.mu.Lock()
	defer c.mu.Unlock()

	prev, seen := c.hashes[key]
	c.hashes[key] = sum
	return !seen || prev != sum
}

// Prime records the content of assets already read from disk, so the first
// save of an unchanged source is not reported. Combined assets are skipped.
func (c *ContentCache) Prime(assets []domain.Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range assets {
		if a.Source == "" {
			continue
		}
		c.hashes[unique.Make(a.Source)] = xxhash.Sum64(a.Data)
	}
}
