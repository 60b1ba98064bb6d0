package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// MaxAge — окно свежести кэша.
const MaxAge = 2 * time.Hour

const (
	KindItems     = "items"
	KindNewItems  = "new_items"
	KindPlaylists = "playlists"
	KindBanners   = "banners"
)

var (
	ErrNotCached = errors.New("catalog: not cached")
	ErrStale     = errors.New("catalog: cache is stale")
)

// Entry — одна строка кэша: payload хранится как JSON.
type Entry struct {
	Kind      string
	Lang      string
	Provider  Provider
	FetchedAt time.Time
	Payload   []byte
}

// Check — ErrStale, если запись старше maxAge или от другого провайдера.
func (e *Entry) Check(p Provider, maxAge time.Duration, now time.Time) error {
	if e.Provider != p {
		return fmt.Errorf("%w: %s/%s from %s, want %s", ErrStale, e.Kind, e.Lang, e.Provider, p)
	}
	if now.Sub(e.FetchedAt) > maxAge {
		return fmt.Errorf("%w: %s/%s fetched at %s", ErrStale, e.Kind, e.Lang, e.FetchedAt.Format(time.RFC3339))
	}
	return nil
}

type Cache struct {
	db *sql.DB
}

func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// один писатель: Updater
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}
	schema := `
	CREATE TABLE IF NOT EXISTS catalogs (
		kind TEXT NOT NULL,
		lang TEXT NOT NULL,
		provider TEXT NOT NULL,
		fetched_at INTEGER NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (kind, lang)
	) WITHOUT ROWID;
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

func (c *Cache) Get(ctx context.Context, kind, lang string) (*Entry, error) {
	e := &Entry{Kind: kind, Lang: lang}
	var provider, payload string
	var fetched int64
	err := c.db.QueryRowContext(ctx,
		`SELECT provider, fetched_at, payload FROM catalogs WHERE kind = ? AND lang = ?`,
		kind, lang,
	).Scan(&provider, &fetched, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotCached, kind, lang)
	}
	if err != nil {
		return nil, err
	}
	e.Provider = Provider(provider)
	e.FetchedAt = time.Unix(0, fetched)
	e.Payload = []byte(payload)
	return e, nil
}

func (c *Cache) Put(ctx context.Context, e Entry) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO catalogs (kind, lang, provider, fetched_at, payload)
		VALUES (?, ?, ?, ?, ?)`,
		e.Kind, e.Lang, string(e.Provider), e.FetchedAt.UnixNano(), string(e.Payload),
	)
	return err
}
