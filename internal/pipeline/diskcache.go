package pipeline

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/go-taxago/taxago/internal/propagate"
)

// diskCache is the optional on-disk backing store for propagated-count
// memoization (spec.md §6 cache_dir), persisting across runs the way
// the in-memory LRU cannot. Pure Go, cgo-free, per the pack's own
// preference for modernc.org/sqlite over mattn/go-sqlite3.
type diskCache struct {
	db *sql.DB
}

// openDiskCache opens (creating if absent) a sqlite database at
// {dir}/propagated_counts.db with a single key/value table.
func openDiskCache(dir string) (*diskCache, error) {
	if dir == "" {
		return nil, nil
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "propagated_counts.db"))
	if err != nil {
		return nil, err
	}
	const schema = `CREATE TABLE IF NOT EXISTS propagated_counts (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &diskCache{db: db}, nil
}

func (c *diskCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *diskCache) Get(key string) ([]propagate.Counts, bool) {
	if c == nil {
		return nil, false
	}
	var blob []byte
	err := c.db.QueryRow(`SELECT value FROM propagated_counts WHERE key = ?`, key).Scan(&blob)
	if err != nil {
		return nil, false
	}
	var counts []propagate.Counts
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&counts); err != nil {
		return nil, false
	}
	return counts, true
}

func (c *diskCache) Put(key string, counts []propagate.Counts) {
	if c == nil {
		return
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(counts); err != nil {
		return
	}
	_, _ = c.db.Exec(`INSERT INTO propagated_counts (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, buf.Bytes())
}
