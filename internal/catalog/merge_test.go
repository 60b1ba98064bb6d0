package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func item(id, name string, variants []Variant) Item {
	return Item{ID: id, Name: name, Type: ItemType{BackendValue: "AthenaCharacter"}, Variants: variants}
}

func TestMergeItems_KeepsOrder(t *testing.T) {
	old := []Item{item("CID_B", "b", nil), item("CID_A", "a", nil)}
	fresh := []Item{item("cid_a", "a2", nil), item("CID_C", "c", nil)}

	got := MergeItems(FortniteAPI, old, fresh)

	assert.Equal(t, []string{"CID_B", "cid_a", "CID_C"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "a2", got[1].Name)
	assert.Equal(t, "b", old[0].Name, "old slice is not modified")
}

func TestMergeItems_IOKeepsVariants(t *testing.T) {
	styles := []Variant{{Name: "Red", Channel: "Material", Tag: "Mat1"}}
	old := []Item{item("CID_A", "a", styles), item("CID_B", "b", nil)}
	fresh := []Item{item("CID_A", "a2", nil), item("CID_B", "b2", nil), item("CID_C", "c", nil)}

	got := MergeItems(FortniteAPIIO, old, fresh)

	assert.Len(t, got, 3)
	assert.Equal(t, "a2", got[0].Name)
	assert.Equal(t, styles, got[0].Variants)
	assert.Equal(t, "b", got[1].Name, "known item without styles is left as is")
}

func TestMergeNewItems(t *testing.T) {
	styles := []Variant{{Name: "Red", Channel: "Material", Tag: "Mat1"}}
	old := []Item{item("CID_A", "a", styles), item("CID_GONE", "x", nil)}
	fresh := []Item{item("CID_A", "a", nil)}

	assert.Equal(t, []Item{item("CID_A", "a", styles)}, MergeNewItems(FortniteAPIIO, old, fresh))
	assert.Equal(t, fresh, MergeNewItems(BenBot, old, fresh))
}

func TestMergePlaylistsAndBanners(t *testing.T) {
	pls := MergePlaylists(
		[]Playlist{{ID: "Playlist_A", Name: "a"}},
		[]Playlist{{ID: "playlist_a", Name: "A"}, {ID: "Playlist_B", Name: "b"}},
	)
	assert.Equal(t, []Playlist{{ID: "playlist_a", Name: "A"}, {ID: "Playlist_B", Name: "b"}}, pls)

	banners := MergeBanners(map[string]string{"old": "1"}, map[string]string{"New": "2"})
	assert.Equal(t, map[string]string{"old": "1", "new": "2"}, banners)
}
