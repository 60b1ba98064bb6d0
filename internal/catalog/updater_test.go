package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI отвечает как Fortnite-API и считает запросы по путям.
type fakeAPI struct {
	mu    sync.Mutex
	hits  map[string]int
	langs []string
	fail  bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	if l := r.URL.Query().Get("language"); l != "" {
		f.langs = append(f.langs, l)
	}
	fail := f.fail
	f.mu.Unlock()
	if fail {
		http.Error(w, "down", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/v2/cosmetics/br":
		_, _ = io.WriteString(w, `{"data": [
			{"id": "CID_028", "name": "Renegade Raider", "type": {"value": "outfit", "displayValue": "Outfit", "backendValue": "AthenaCharacter"}, "set": null, "variants": null},
			{"id": "BID_001", "name": "Black Shield", "type": {"value": "backpack", "displayValue": "Back Bling", "backendValue": "AthenaBackpack"}, "set": null, "variants": null}
		]}`)
	case "/v2/cosmetics/br/new":
		_, _ = io.WriteString(w, `{"data": {"items": [
			{"id": "CID_999", "name": "Fresh", "type": {"value": "outfit", "displayValue": "Outfit", "backendValue": "AthenaCharacter"}, "set": null, "variants": null}
		]}}`)
	case "/v1/playlists":
		_, _ = io.WriteString(w, `{"data": [{"id": "Playlist_DefaultSolo", "name": "Solo"}]}`)
	case "/v1/banners":
		_, _ = io.WriteString(w, `{"data": [{"id": "OtherBanner51", "images": {"icon": "https://img/51.png"}}]}`)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeAPI) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

func newTestUpdater(t *testing.T, provider Provider) (*Updater, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{hits: map[string]int{}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client := NewClient(provider, "")
	client.Hosts = Hosts{BenBot: srv.URL, FortniteAPI: srv.URL, FortniteAPIIO: srv.URL}
	logger := log.New()
	logger.SetOutput(io.Discard)
	return NewUpdater(client, openCache(t), "en", "ja", logger), api
}

func TestUpdater_UpdateAndLoad(t *testing.T) {
	ctx := context.Background()
	u, api := newTestUpdater(t, FortniteAPI)

	require.NoError(t, u.Update(ctx, false))
	assert.Equal(t, 2, api.count("/v2/cosmetics/br"), "main and sub languages")
	assert.ElementsMatch(t, []string{"en", "ja", "en"}, api.langs)

	s, err := u.Load(ctx)
	require.NoError(t, err)
	assert.Same(t, s, u.Snapshot())
	require.Len(t, s.MainItems, 2)
	assert.Equal(t, "BID_001", s.MainItems[0].ID)
	assert.Len(t, s.SubItems, 2)
	assert.Equal(t, "CID_999", s.NewItems[0].ID)
	assert.Equal(t, []Playlist{{ID: "Playlist_DefaultSolo", Name: "Solo"}}, s.MainPlaylists)
	assert.Equal(t, "https://img/51.png", s.Banners["otherbanner51"])

	// всё свежее: второй проход в сеть не ходит
	require.NoError(t, u.Update(ctx, false))
	assert.Equal(t, 2, api.count("/v2/cosmetics/br"))

	require.NoError(t, u.Update(ctx, true))
	assert.Equal(t, 4, api.count("/v2/cosmetics/br"))
}

func TestUpdater_StaleCacheIsRefetched(t *testing.T) {
	ctx := context.Background()
	u, api := newTestUpdater(t, FortniteAPI)
	require.NoError(t, u.Update(ctx, false))

	u.now = func() time.Time { return time.Now().Add(MaxAge + time.Minute) }
	require.NoError(t, u.Update(ctx, false))
	assert.Equal(t, 4, api.count("/v2/cosmetics/br"))
}

func TestUpdater_FailureWithoutCache(t *testing.T) {
	u, api := newTestUpdater(t, FortniteAPI)
	api.setFail(true)

	err := u.Update(context.Background(), false)
	require.Error(t, err)

	_, err = u.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestUpdater_FailureWithCacheIsTolerated(t *testing.T) {
	ctx := context.Background()
	u, api := newTestUpdater(t, FortniteAPI)
	require.NoError(t, u.Update(ctx, false))

	var refreshErrs atomic.Int32
	u.OnRefresh = func(kind, lang string, err error) {
		if err != nil {
			refreshErrs.Add(1)
		}
	}
	api.setFail(true)
	require.NoError(t, u.Update(ctx, true))
	assert.Positive(t, refreshErrs.Load())

	s, err := u.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, s.MainItems, 2)
}

func TestClient_BenBotHasNoPlaylists(t *testing.T) {
	u, api := newTestUpdater(t, BenBot)

	pls, err := u.client.Playlists(context.Background(), "en")
	require.NoError(t, err)
	assert.Empty(t, pls)
	assert.Zero(t, api.count("/v1/playlists"))
}
