// Package storage provides the sqlite-backed price cache.
package storage

import (
	"database/sql"
	"time"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	Close() error
}

func OpenSQLite(dsn string) (DB, error) {
	return sql.Open("sqlite3", dsn)
}

func InitSchema(db DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS price_cache(
		key TEXT PRIMARY KEY, payload BLOB, created_at INTEGER
	)`)
	return err
}

// PriceCache stores fetched price series keyed by ticker and window.
// Entries older than the caller's maxAge are treated as misses; Prune
// removes them from disk.
type PriceCache struct{ db DB }

func NewPriceCache(db DB) *PriceCache { return &PriceCache{db: db} }

func (c *PriceCache) Put(key string, payload []byte) error {
	_, err := c.db.Exec(`INSERT INTO price_cache(key,payload,created_at) VALUES(?,?,?)
		ON CONFLICT(key) DO UPDATE SET payload=excluded.payload, created_at=excluded.created_at`,
		key, payload, time.Now().Unix())
	return err
}

func (c *PriceCache) Get(key string, maxAge time.Duration) ([]byte, bool) {
	rows, err := c.db.Query(`SELECT payload, created_at FROM price_cache WHERE key=?`, key)
	if err != nil {
		return nil, false
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, false
	}
	var payload []byte
	var createdAt int64
	if err := rows.Scan(&payload, &createdAt); err != nil {
		return nil, false
	}
	if time.Since(time.Unix(createdAt, 0)) > maxAge {
		return nil, false
	}
	return payload, true
}

func (c *PriceCache) Prune(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).Unix()
	_, err := c.db.Exec(`DELETE FROM price_cache WHERE created_at < ?`, cutoff)
	return err
}
