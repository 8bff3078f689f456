package awbwapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap/awbw"
)

// Cache keeps zstd-compressed AWBW responses in SQLite for a fixed TTL.
type Cache struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
	ttl time.Duration
	now func() time.Time
}

// OpenCache opens or creates the cache database at path.
func OpenCache(path string, ttl time.Duration) (*Cache, error) {
	if path == "" {
		return nil, fmt.Errorf("empty cache path")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initCache(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db, enc: enc, dec: dec, ttl: ttl, now: time.Now}, nil
}

func initCache(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS awbw_maps (
			maps_id INTEGER PRIMARY KEY,
			body BLOB NOT NULL,
			fetched_at INTEGER NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the cached body for id if it has not expired.
func (c *Cache) Get(ctx context.Context, id int) ([]byte, bool, error) {
	var (
		blob    []byte
		fetched int64
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT body, fetched_at FROM awbw_maps WHERE maps_id = ?", id).Scan(&blob, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if c.now().Sub(time.Unix(fetched, 0)) >= c.ttl {
		return nil, false, nil
	}
	body, err := c.dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, false, fmt.Errorf("decompressing cached map %d: %w", id, err)
	}
	return body, true, nil
}

// Put stores body for id, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, id int, body []byte) error {
	blob := c.enc.EncodeAll(body, nil)
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO awbw_maps (maps_id, body, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(maps_id) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		id, blob, c.now().Unix())
	return err
}

// Purge deletes expired entries and returns how many were removed.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.ttl).Unix()
	res, err := c.db.ExecContext(ctx, "DELETE FROM awbw_maps WHERE fetched_at <= ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close releases the database and codecs.
func (c *Cache) Close() error {
	c.dec.Close()
	encErr := c.enc.Close()
	if err := c.db.Close(); err != nil {
		return err
	}
	return encErr
}

// CachingFetcher serves map bodies from a Cache and falls back to Next.
// Only bodies that decode to a map are cached.
type CachingFetcher struct {
	Next   awbw.Fetcher
	Cache  *Cache
	logger zerolog.Logger
}

var _ awbw.Fetcher = (*CachingFetcher)(nil)

// NewCachingFetcher wraps next with cache.
func NewCachingFetcher(next awbw.Fetcher, cache *Cache) *CachingFetcher {
	return &CachingFetcher{
		Next:   next,
		Cache:  cache,
		logger: log.With().Str("component", "awbwapi_cache").Logger(),
	}
}

func (f *CachingFetcher) FetchMap(ctx context.Context, id int) ([]byte, error) {
	body, ok, err := f.Cache.Get(ctx, id)
	if err != nil {
		f.logger.Warn().Err(err).Int("maps_id", id).Msg("Cache read failed, fetching")
	} else if ok {
		f.logger.Debug().Int("maps_id", id).Msg("Cache hit")
		return body, nil
	}

	body, err = f.Next.FetchMap(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := awbw.DecodeJSON(body); err != nil {
		f.logger.Debug().Err(err).Int("maps_id", id).Msg("Body does not decode, not caching")
		return body, nil
	}
	if err := f.Cache.Put(ctx, id, body); err != nil {
		f.logger.Warn().Err(err).Int("maps_id", id).Msg("Cache write failed")
	}
	return body, nil
}
