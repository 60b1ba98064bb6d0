package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_PutGet(t *testing.T) {
	ctx := context.Background()
	c := openCache(t)

	_, err := c.Get(ctx, KindItems, "en")
	assert.ErrorIs(t, err, ErrNotCached)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, c.Put(ctx, Entry{Kind: KindItems, Lang: "en", Provider: BenBot, FetchedAt: at, Payload: []byte(`[]`)}))
	require.NoError(t, c.Put(ctx, Entry{Kind: KindItems, Lang: "en", Provider: FortniteAPI, FetchedAt: at, Payload: []byte(`[1]`)}))

	e, err := c.Get(ctx, KindItems, "en")
	require.NoError(t, err)
	assert.Equal(t, FortniteAPI, e.Provider)
	assert.True(t, at.Equal(e.FetchedAt))
	assert.Equal(t, `[1]`, string(e.Payload))
}

func TestEntry_Check(t *testing.T) {
	now := time.Now()
	e := &Entry{Kind: KindItems, Lang: "en", Provider: BenBot, FetchedAt: now.Add(-time.Hour)}

	assert.NoError(t, e.Check(BenBot, MaxAge, now))
	assert.ErrorIs(t, e.Check(FortniteAPI, MaxAge, now), ErrStale)
	assert.ErrorIs(t, e.Check(BenBot, MaxAge, now.Add(2*time.Hour)), ErrStale)
}
