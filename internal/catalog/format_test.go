package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatItems_BenBot(t *testing.T) {
	data := []byte(`[
		{"id": "CID_029", "name": "Ghoul", "backendType": "AthenaCharacter", "shortDescription": "Outfit", "set": null, "variants": null},
		{"id": "CID_028", "name": "Renegade", "backendType": "AthenaCharacter", "shortDescription": "Outfit", "set": "Classic",
		 "variants": [{"channel": "Material", "options": [{"tag": "Mat1", "name": "Red"}, {"tag": "Mat2", "name": "Blue"}]}]},
		{"id": "Glider_001", "name": "Glider", "backendType": "AthenaGlider", "shortDescription": "Glider", "set": null, "variants": null}
	]`)
	items, err := FormatItems(BenBot, data)
	require.NoError(t, err)
	require.Len(t, items, 2, "gliders are dropped")

	assert.Equal(t, "CID_028", items[0].ID, "sorted by id")
	assert.Equal(t, ItemType{Value: "outfit", DisplayValue: "Outfit", BackendValue: "AthenaCharacter"}, items[0].Type)
	require.NotNil(t, items[0].Set)
	assert.Equal(t, "Classic", *items[0].Set)
	assert.Equal(t, []Variant{
		{Name: "Red", Channel: "Material", Tag: "Mat1"},
		{Name: "Blue", Channel: "Material", Tag: "Mat2"},
	}, items[0].Variants)
	assert.Nil(t, items[1].Variants)
}

func TestFormatItems_FortniteAPI(t *testing.T) {
	data := []byte(`[
		{"id": "EID_Floss", "name": "Floss", "type": {"value": "emote", "displayValue": "Emote", "backendValue": "AthenaDance"},
		 "set": {"value": "Party"}, "variants": []},
		{"id": "BID_001", "name": null, "type": {"value": "backpack", "displayValue": "Back Bling", "backendValue": "AthenaBackpack"},
		 "set": null, "variants": null}
	]`)
	items, err := FormatItems(FortniteAPI, data)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "BID_001", items[0].ID)
	assert.Empty(t, items[0].Name)
	assert.Nil(t, items[0].Set)
	assert.Equal(t, "Party", *items[1].Set)
	assert.NotNil(t, items[1].Variants)
	assert.Empty(t, items[1].Variants)
}

func TestFormatItems_FortniteAPIIO(t *testing.T) {
	data := []byte(`[
		{"id": "CID_A", "name": "A", "type": "outfit", "set": ""},
		{"id": "Pickaxe_B", "name": "B", "type": "pickaxe", "set": "Tools"},
		{"id": "Wrap_C", "name": "C", "type": "wrap", "set": ""}
	]`)
	items, err := FormatItems(FortniteAPIIO, data)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "AthenaCharacter", items[0].Type.BackendValue)
	assert.Nil(t, items[0].Set)
	assert.Nil(t, items[0].Variants)
	assert.Equal(t, "AthenaPickaxe", items[1].Type.BackendValue)
	assert.Equal(t, "Tools", *items[1].Set)
}

func TestFormatItems_UnknownProvider(t *testing.T) {
	_, err := FormatItems("nope", []byte(`[]`))
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestFormatPlaylists(t *testing.T) {
	pls, err := FormatPlaylists(FortniteAPIIO, []byte(`[{"id": "Solo", "name": "Solo"}, {"id": "DefaultDuo", "name": null}]`))
	require.NoError(t, err)
	assert.Equal(t, []Playlist{
		{ID: "Playlist_DefaultDuo", Name: ""},
		{ID: "Playlist_Solo", Name: "Solo"},
	}, pls)
}

func TestFlattenIOGroups(t *testing.T) {
	groups := map[string]json.RawMessage{
		"outfit":          json.RawMessage(`[{"id": "CID_A", "name": "A", "type": "outfit"}]`),
		"bundle":          json.RawMessage(`[{"id": "Bundle_1"}]`),
		"cosmeticvariant": json.RawMessage(`[{"id": "CV_1"}]`),
	}
	b, err := flattenIOGroups(groups)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": "CID_A", "name": "A", "type": "outfit"}]`, string(b))

	b, err = flattenIOGroups(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))
}

func TestBenbotBanners(t *testing.T) {
	got := benbotBanners("https://host", []string{"FortniteGame/Content/Items/BannerIcons/OtherBanner51.uasset"})
	assert.Equal(t, map[string]string{
		"OtherBanner51": "https://host/api/v1/exportAsset?path=FortniteGame/Content/Items/BannerIcons/OtherBanner51.uasset&rawIcon=true",
	}, got)
}
