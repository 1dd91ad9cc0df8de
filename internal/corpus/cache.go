package corpus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachingClient wraps a SearchClient with a memory tier (per-process) and an
// optional disk tier (across runs). Corpus lookups are expensive and article
// status changes rarely, so a generous TTL is safe.
type CachingClient struct {
	inner  SearchClient
	memory *gocache.Cache
	dir    string // empty disables the disk tier
	ttl    time.Duration
}

// NewCachingClient wraps inner with caching. dir may be empty to keep the
// cache memory-only.
func NewCachingClient(inner SearchClient, dir string, ttl time.Duration) *CachingClient {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &CachingClient{
		inner:  inner,
		memory: gocache.New(ttl, 10*time.Minute),
		dir:    dir,
		ttl:    ttl,
	}
}

// Search returns cached results when available, otherwise delegates to the
// wrapped client and stores the reply in both tiers.
func (c *CachingClient) Search(ctx context.Context, query string, limit int) ([]Document, error) {
	key := cacheKey(query, limit)

	if docs, found := c.memory.Get(key); found {
		return docs.([]Document), nil
	}

	if docs, found := c.readDisk(key); found {
		c.memory.Set(key, docs, gocache.DefaultExpiration)
		return docs, nil
	}

	docs, err := c.inner.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	c.memory.Set(key, docs, gocache.DefaultExpiration)
	c.writeDisk(key, docs)

	return docs, nil
}

// diskEntry is the on-disk cache format
type diskEntry struct {
	Documents []Document `json:"documents"`
	ExpiresAt time.Time  `json:"expires_at"`
}

func (c *CachingClient) readDisk(key string) ([]Document, bool) {
	if c.dir == "" {
		return nil, false
	}

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(c.path(key))
		return nil, false
	}

	return entry.Documents, true
}

func (c *CachingClient) writeDisk(key string, docs []Document) {
	if c.dir == "" {
		return
	}

	entry := diskEntry{
		Documents: docs,
		ExpiresAt: time.Now().Add(c.ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	// Best effort: a failed cache write never fails the lookup
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(c.path(key), data, 0o644)
}

func (c *CachingClient) path(key string) string {
	return filepath.Join(c.dir, key+".cache")
}

// cacheKey derives a stable key from the query and result limit
func cacheKey(query string, limit int) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", limit, query)))
	return "juriscan:v1:" + hex.EncodeToString(hash[:])
}
