// Package cache is a small sqlite-backed TTL cache for upstream search
// responses. Flyer data changes weekly, so repeated identical searches
// within the TTL are answered locally.
package cache

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

func New(dbPath string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS searches (
			key TEXT NOT NULL PRIMARY KEY,
			data TEXT NOT NULL,
			fetched_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db: db, ttl: ttl}, nil
}

// Get unmarshals the cached value for key into out. A miss, an expired
// entry and a decode failure all report false.
func (c *Cache) Get(key string, out any) bool {
	if c == nil {
		return false
	}

	var data string
	var fetchedAt time.Time

	err := c.db.QueryRow(
		`SELECT data, fetched_at FROM searches WHERE key = ?`,
		key,
	).Scan(&data, &fetchedAt)
	if err != nil {
		return false
	}

	if time.Since(fetchedAt) > c.ttl {
		return false
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		log.Printf("cache: failed to unmarshal entry %q: %v", key, err)
		return false
	}
	return true
}

func (c *Cache) Set(key string, value any) {
	if c == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache: failed to marshal entry %q: %v", key, err)
		return
	}

	_, err = c.db.Exec(
		`INSERT INTO searches (key, data, fetched_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key)
		 DO UPDATE SET data = excluded.data, fetched_at = excluded.fetched_at`,
		key, string(data), time.Now().UTC(),
	)
	if err != nil {
		log.Printf("cache: failed to store entry %q: %v", key, err)
	}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}
