package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgorLis/lobbybot/internal/catalog"
)

func strp(s string) *string { return &s }

func item(id, name, backend string, set *string, variants ...catalog.Variant) catalog.Item {
	return catalog.Item{
		ID:       id,
		Name:     name,
		Type:     catalog.ItemType{Value: backend, DisplayValue: backend, BackendValue: backend},
		Set:      set,
		Variants: variants,
	}
}

func ids(items []catalog.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func testSearcher() *Searcher {
	main := []catalog.Item{
		item("CID_028_Athena_Commando_F", "Renegade Raider", "AthenaCharacter", strp("Renegade"),
			catalog.Variant{Name: "Default", Channel: "Material", Tag: "Mat1"},
			catalog.Variant{Name: "Checkered", Channel: "Material", Tag: "Mat2"}),
		item("CID_029_Athena_Commando_F_Halloween", "Ghoul Trooper", "AthenaCharacter", nil),
		item("BID_028_SpaceBlack", "Black Shield", "AthenaBackpack", strp("Renegade")),
		item("PetCarrier_001_Dog", "Bonesy", "AthenaPetCarrier", nil),
		item("Pickaxe_ID_011_Medieval", "Axecalibur", "AthenaPickaxe", nil),
		item("EID_Floss", "Floss", "AthenaDance", nil),
		item("CID_NoName", "", "AthenaCharacter", nil),
	}
	sub := []catalog.Item{
		item("CID_028_Athena_Commando_F", "レネゲードレイダー", "AthenaCharacter", nil),
		item("CID_030_Athena_Commando_M_Halloween", "Reaper", "AthenaCharacter", nil),
	}
	pl := []catalog.Playlist{
		{ID: "Playlist_DefaultSolo", Name: "Solo"},
		{ID: "Playlist_DefaultSquad", Name: "Squads"},
	}
	subPl := []catalog.Playlist{
		{ID: "Playlist_Playground", Name: "プレイグラウンド"},
	}
	return NewSearcher(main, sub, pl, subPl, NewFolder(true, nil))
}

type readings map[string]string

func (r readings) Convert(s string) string {
	if v, ok := r[s]; ok {
		return v
	}
	return s
}

func TestFolder(t *testing.T) {
	f := NewFolder(true, nil)
	assert.Equal(t, "renegade", f.Fold("ReNeGaDe"))
	assert.Equal(t, "abc", f.Fold("ＡＢＣ"))
	assert.Equal(t, "れねげーど", f.Fold("レネゲード"))
	// полуширинная катакана сначала расширяется
	assert.Equal(t, "あ", f.Fold("ｱ"))

	exact := NewFolder(false, nil)
	assert.Equal(t, "ReNeGaDe", exact.Fold("ReNeGaDe"))

	kanji := NewFolder(true, readings{"犬": "いぬ"})
	assert.Equal(t, "いぬ", kanji.Fold("犬"))

	var none *Folder
	assert.Equal(t, "X", none.Fold("X"))
}

func TestSearcher_GetItem(t *testing.T) {
	s := testSearcher()

	it, ok := s.GetItem("cid_028_athena_commando_f")
	require.True(t, ok)
	assert.Equal(t, "Renegade Raider", it.Name)

	// запасной язык не участвует в точном поиске
	_, ok = s.GetItem("CID_030_Athena_Commando_M_Halloween")
	assert.False(t, ok)
}

func TestSearcher_SearchItem(t *testing.T) {
	s := testSearcher()

	cases := []struct {
		name  string
		mode  Mode
		text  string
		types string
		want  []string
	}{
		{"name contains", ModeName, "raider", "", []string{"CID_028_Athena_Commando_F"}},
		{"id contains", ModeID, "cid_028", "", []string{"CID_028_Athena_Commando_F"}},
		{"id filtered", ModeID, "028", "AthenaBackpack", []string{"BID_028_SpaceBlack"}},
		{"id any type", ModeID, "028", "", []string{"CID_028_Athena_Commando_F", "BID_028_SpaceBlack"}},
		{"type group", ModeName, "b", "AthenaBackpack,AthenaPet,AthenaPetCarrier", []string{"BID_028_SpaceBlack", "PetCarrier_001_Dog"}},
		{"set", ModeSet, "renegade", "", []string{"CID_028_Athena_Commando_F", "BID_028_SpaceBlack"}},
		{"fallback to sub", ModeName, "reaper", "", []string{"CID_030_Athena_Commando_M_Halloween"}},
		{"nothing", ModeName, "zzz", "", nil},
		{"nameless skipped by id", ModeID, "cid_noname", "", nil},
		{"nameless skipped by empty text", ModeName, "", "AthenaCharacter", []string{
			"CID_028_Athena_Commando_F", "CID_029_Athena_Commando_F_Halloween",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, nilIfEmpty(ids(s.SearchItem(tc.mode, tc.text, tc.types))))
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestSearcher_PrimaryShadowsFallback(t *testing.T) {
	s := testSearcher()

	// "Halloween" есть в id обоих языков, но основной язык затеняет запасной
	got := s.SearchItem(ModeID, "halloween", "")
	assert.Equal(t, []string{"CID_029_Athena_Commando_F_Halloween"}, ids(got))

	// катакана из запасного языка находится хираганой
	got = s.SearchItem(ModeName, "れねげーど", "")
	assert.Equal(t, []string{"CID_028_Athena_Commando_F"}, ids(got))
	assert.Equal(t, "レネゲードレイダー", got[0].Name)
}

func TestSearcher_SearchItemNameID(t *testing.T) {
	s := testSearcher()

	assert.Equal(t, []string{"EID_Floss"}, ids(s.SearchItemNameID("floss", "")))
	assert.Equal(t, []string{"Pickaxe_ID_011_Medieval"}, ids(s.SearchItemNameID("medieval", "")))
	assert.Equal(t, []string{"CID_030_Athena_Commando_M_Halloween"}, ids(s.SearchItemNameID("Reaper", "")))
	assert.Empty(t, s.SearchItemNameID("floss", "AthenaCharacter"))
}

func TestSearcher_Styles(t *testing.T) {
	s := testSearcher()

	assert.Len(t, s.GetStyle("CID_028_Athena_Commando_F"), 2)
	assert.Nil(t, s.GetStyle("CID_029_Athena_Commando_F_Halloween"))
	assert.Nil(t, s.GetStyle("missing"))

	got := s.SearchStyle("CID_028_Athena_Commando_F", "CHECK")
	require.Len(t, got, 1)
	assert.Equal(t, "Mat2", got[0].Tag)
}

func TestSearcher_Playlists(t *testing.T) {
	s := testSearcher()

	p, ok := s.GetPlaylist("playlist_defaultsolo")
	require.True(t, ok)
	assert.Equal(t, "Solo", p.Name)
	_, ok = s.GetPlaylist("Playlist_Playground")
	assert.False(t, ok)

	got := s.SearchPlaylistNameID("squad")
	require.Len(t, got, 1)
	assert.Equal(t, "Playlist_DefaultSquad", got[0].ID)

	got = s.SearchPlaylistNameID("default")
	assert.Len(t, got, 2)

	got = s.SearchPlaylist(ModeName, "ぷれい")
	require.Len(t, got, 1)
	assert.Equal(t, "Playlist_Playground", got[0].ID)
}

func TestItemIndex_PutReplacesInPlace(t *testing.T) {
	ix := NewItemIndex([]catalog.Item{
		item("A", "a", "AthenaCharacter", nil),
		item("B", "b", "AthenaCharacter", nil),
	})
	ix.Put(item("a", "a2", "AthenaDance", nil))
	assert.Len(t, ix.items, 2)

	var got []string
	ix.each([]string{"AthenaCharacter"}, func(it catalog.Item) { got = append(got, it.ID) })
	assert.Equal(t, []string{"B"}, got)

	got = nil
	ix.each(nil, func(it catalog.Item) { got = append(got, it.Name) })
	assert.Equal(t, []string{"a2", "b"}, got)
}

func TestFromSnapshot(t *testing.T) {
	s := FromSnapshot(nil, nil)
	assert.Empty(t, s.SearchItem(ModeName, "", ""))

	s = FromSnapshot(&catalog.Snapshot{
		MainItems: []catalog.Item{item("EID_Floss", "Floss", "AthenaDance", nil)},
	}, nil)
	_, ok := s.GetItem("eid_floss")
	assert.True(t, ok)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("ID")
	require.NoError(t, err)
	assert.Equal(t, ModeID, m)
	_, err = ParseMode("type")
	assert.Error(t, err)
}
