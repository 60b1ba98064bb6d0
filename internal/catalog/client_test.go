package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FortniteAPIIO(t *testing.T) {
	var auth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = append(auth, r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/v1/items/list":
			assert.Equal(t, "ja", r.URL.Query().Get("lang"))
			_, _ = io.WriteString(w, `{"items": {
				"outfit": [{"id": "CID_A", "name": "A", "type": "outfit", "set": ""}],
				"bundle": [{"id": "Bundle_1", "name": "B", "type": "bundle", "set": ""}]
			}}`)
		case "/v1/game/modes":
			_, _ = io.WriteString(w, `{"modes": [{"id": "DefaultSquad", "name": "Squads"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(FortniteAPIIO, "secret")
	c.Hosts.FortniteAPIIO = srv.URL
	ctx := context.Background()

	items, err := c.Items(ctx, "ja")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "AthenaCharacter", items[0].Type.BackendValue)

	pls, err := c.Playlists(ctx, "ja")
	require.NoError(t, err)
	assert.Equal(t, []Playlist{{ID: "Playlist_DefaultSquad", Name: "Squads"}}, pls)

	banners, err := c.Banners(ctx)
	require.NoError(t, err)
	assert.Empty(t, banners)

	assert.Equal(t, []string{"secret", "secret"}, auth)
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(FortniteAPI, "")
	c.Hosts.FortniteAPI = srv.URL
	_, err := c.Items(context.Background(), "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
