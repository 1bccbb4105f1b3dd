package downloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// DefaultTTL matches how often the RDB
// exports are regenerated.
const DefaultTTL = 3 * time.Hour

// Cache stores response bodies on disk
// for a limited amount of time.
type Cache struct {
	dir string
	ttl time.Duration
}

func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	dir = filepath.Join(dir, "http")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		dir: dir,
		ttl: ttl,
	}, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, Key(kindResponse, key)+".json")
}

// Get returns the value stored for key. Entries
// older than the TTL are treated as missing.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	log := logr.FromContextOrDiscard(ctx).WithValues("key", key)
	path := c.path(key)

	info, err := os.Stat(path)
	if err != nil {
		log.V(4).Info("cache miss")
		return nil, false
	}
	if age := time.Since(info.ModTime()); age > c.ttl {
		log.V(3).Info("cache entry expired", "age", age)
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.V(3).Info("failed to read cache entry", "path", path, "error", err.Error())
		return nil, false
	}
	log.V(3).Info("cache hit", "path", path)
	return data, true
}

// Put stores data for key, replacing any previous value.
func (c *Cache) Put(ctx context.Context, key string, data []byte) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("key", key)

	// write to a temporary file first so that readers
	// never see a partial entry
	tmp := filepath.Join(c.dir, uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp, c.path(key)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("moving cache entry: %w", err)
	}
	log.V(3).Info("stored cache entry", "size", len(data))
	return nil
}
