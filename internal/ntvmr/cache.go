package ntvmr

import (
	"bytes"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
	_ "modernc.org/sqlite"

	"vmr2tei/core/errors"
)

// Cache stores apparatus responses in a local SQLite database so repeat
// conversions of the same index do not hit the NTVMR again. Bodies are
// xz-compressed and keyed by the BLAKE3 hash of the request URL.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS apparatus (
	key        TEXT PRIMARY KEY,
	url        TEXT NOT NULL,
	fetched_at INTEGER NOT NULL,
	body       BLOB NOT NULL
);
`

// OpenCache opens (creating if needed) the cache database under dir.
// Entries older than ttl are reported as stale.
func OpenCache(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "apparatus.db"))
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Cache{db: db, ttl: ttl}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// cacheKey derives the row key for a request URL.
func cacheKey(url string) string {
	sum := blake3.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached body for url. It reports errors.ErrCacheMiss
// when no entry exists, or a stale entry when the TTL has lapsed and
// allowStale is false.
func (c *Cache) Get(url string, allowStale bool) ([]byte, error) {
	var fetchedAt int64
	var body []byte
	row := c.db.QueryRow(
		"SELECT fetched_at, body FROM apparatus WHERE key = ?", cacheKey(url))
	if err := row.Scan(&fetchedAt, &body); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrCacheMiss
		}
		return nil, fmt.Errorf("read cache: %w", err)
	}
	if !allowStale && time.Since(time.Unix(fetchedAt, 0)) >= c.ttl {
		return nil, errors.ErrCacheMiss
	}
	r, err := xz.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decompress cache entry: %w", err)
	}
	return io.ReadAll(r)
}

// Put stores the body for url, replacing any previous entry.
func (c *Cache) Put(url string, body []byte) error {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("compress cache entry: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("compress cache entry: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("compress cache entry: %w", err)
	}
	_, err = c.db.Exec(
		"INSERT OR REPLACE INTO apparatus (key, url, fetched_at, body) VALUES (?, ?, ?, ?)",
		cacheKey(url), url, time.Now().Unix(), buf.Bytes())
	if err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}
