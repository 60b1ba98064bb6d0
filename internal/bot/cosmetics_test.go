package bot

import (
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/EgorLis/lobbybot/internal/search"
)

func TestFixCosmetics(t *testing.T) {
	logger := log.New()
	logger.SetOutput(io.Discard)
	s := search.FromSnapshot(testSnapshot(), search.NewFolder(true, nil))

	client := map[string]any{
		"fortnite": map[string]any{
			"party":             map[string]any{"playlist": "squads"},
			"outfit":            "renegade",
			"outfit_style":      []any{"checkered", "<Variant name='X' channel='Y' tag='Z'>", "nope"},
			"join_outfit":       "<Item name='Ghoul Trooper' id='CID_029_Athena_Commando_F_Halloween'>",
			"leave_outfit":      nil,
			"ng_outfits":        []any{"skull", "Unknown Outfit"},
			"backpack":          "black shield",
			"pickaxe":           "Missing Pickaxe",
			"emote":             "eid_artgiant",
			"emote_style":       []any{"ignored"},
			"join_emote":        "",
			"ng_backpacks":      nil,
			"join_outfit_style": nil,
		},
	}
	assert.True(t, FixCosmetics(client, s, logger))

	f := client["fortnite"].(map[string]any)
	assert.Equal(t, "<Playlist name='Squads' id='Playlist_DefaultSquad'>", f["party"].(map[string]any)["playlist"])
	assert.Equal(t, "<Item name='Renegade Raider' id='CID_028_Athena_Commando_F'>", f["outfit"])
	assert.Equal(t, []any{
		"<Variant name='Checkered' channel='Material' tag='Mat2'>",
		"<Variant name='X' channel='Y' tag='Z'>",
		"nope",
	}, f["outfit_style"])
	assert.Equal(t, "<Item name='Ghoul Trooper' id='CID_029_Athena_Commando_F_Halloween'>", f["join_outfit"])
	assert.Equal(t, []any{
		"<Item name='Skull Trooper' id='CID_030_Athena_Commando_M_Halloween'>",
		"Unknown Outfit",
	}, f["ng_outfits"])
	assert.Equal(t, "<Item name='Black Shield' id='BID_028_SpaceBlack'>", f["backpack"])
	assert.Equal(t, "Missing Pickaxe", f["pickaxe"])
	assert.Equal(t, "<Item name='Art Giant' id='EID_ArtGiant'>", f["emote"])
	// у эмоций стили не разрешаются
	assert.Equal(t, []any{"ignored"}, f["emote_style"])

	// повторный проход ничего не меняет
	assert.False(t, FixCosmetics(client, s, logger))
}
