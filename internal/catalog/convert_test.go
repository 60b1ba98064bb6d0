package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStrings(t *testing.T) {
	s := ItemString(Item{ID: "CID_028_Athena_Commando_F", Name: "Renegade Raider"})
	assert.Equal(t, "<Item name='Renegade Raider' id='CID_028_Athena_Commando_F'>", s)
	id, ok := ConfigItemID(s)
	require.True(t, ok)
	assert.Equal(t, "CID_028_Athena_Commando_F", id)

	_, ok = ConfigItemID("Renegade Raider")
	assert.False(t, ok)

	pid, ok := ConfigPlaylistID(PlaylistString(Playlist{ID: "Playlist_DefaultSolo", Name: "Solo"}))
	require.True(t, ok)
	assert.Equal(t, "Playlist_DefaultSolo", pid)

	v := Variant{Name: "Red", Channel: "Material", Tag: "Mat1"}
	got, ok := ConfigVariant(VariantString(v))
	require.True(t, ok)
	assert.Equal(t, v, got)
}

func TestBackendByIDPrefix(t *testing.T) {
	tests := map[string]string{
		"cid_028":            "AthenaCharacter",
		"BID_001":            "AthenaBackpack",
		"petcarrier_002":     "AthenaPetCarrier",
		"Pickaxe_ID_011":     "AthenaPickaxe",
		"EID_Floss":          "AthenaDance",
		"emoji_SkullBrite":   "AthenaEmoji",
		"toy_001_basketball": "AthenaToy",
	}
	for id, want := range tests {
		got, ok := BackendByIDPrefix(id)
		require.True(t, ok, id)
		assert.Equal(t, want, got, id)
	}
	_, ok := BackendByIDPrefix("Glider_001")
	assert.False(t, ok)
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("fortnite-api")
	require.NoError(t, err)
	assert.Equal(t, FortniteAPI, p)

	_, err = ParseProvider("other")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestAPIToBackend(t *testing.T) {
	assert.Equal(t, "AthenaPetCarrier", APIToBackend["petcarrier"])
	assert.Len(t, APIToBackend, len(BackendToAPI))
}
