package gitx

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// historiesBucket holds one JSON-encoded commit list per repo@head key.
var historiesBucket = []byte("histories")

// Cache is a bbolt-backed store for extracted histories, so replaying
// a large repository twice skips the git log parse. Keys combine the
// repo root and its HEAD sha, which makes entries self-invalidating:
// new commits change the key.
type Cache struct {
	db *bolt.DB
}

// OpenCache opens (or creates) the cache file at path.
func OpenCache(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(historiesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// CacheKey builds the lookup key for a repository at a given HEAD.
func CacheKey(repoRoot, headSHA string) string {
	return repoRoot + "@" + headSHA
}

// Load returns the cached history for key. Missing or corrupt entries
// report a plain miss; the caller re-extracts either way.
func (c *Cache) Load(key string) ([]Commit, bool) {
	var commits []Commit
	found := false
	_ = c.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(historiesBucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &commits); err != nil {
			return nil // treat as miss
		}
		found = true
		return nil
	})
	if !found {
		return nil, false
	}
	return commits, true
}

// Store saves the history for key.
func (c *Cache) Store(key string, commits []Commit) error {
	raw, err := json.Marshal(commits)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(historiesBucket).Put([]byte(key), raw)
	})
}
