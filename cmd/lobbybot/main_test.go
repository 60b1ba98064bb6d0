package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgorLis/lobbybot/internal/catalog"
	"github.com/EgorLis/lobbybot/internal/search"
)

func testOptions(t *testing.T) *options {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"config.json", "commands.json"} {
		b, err := os.ReadFile(filepath.Join("..", "..", "internal", "config", "testdata", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), b, 0o644))
	}
	return &options{
		configPath:   filepath.Join(dir, "config.json"),
		commandsPath: filepath.Join(dir, "commands.json"),
		dataDir:      filepath.Join(dir, "data"),
		langDir:      filepath.Join("..", "..", "lang"),
		logFormat:    "text",
	}
}

func TestCheck(t *testing.T) {
	o := testOptions(t)
	var out bytes.Buffer
	require.NoError(t, o.check(&out))
	assert.Contains(t, out.String(), "config.json: ok")
	assert.Contains(t, out.String(), "commands.json: ok")

	require.NoError(t, os.WriteFile(o.configPath, []byte(`{"loglevel": "loud"}`), 0o644))
	out.Reset()
	err := o.check(&out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "['loglevel']")
}

func TestRunSearch(t *testing.T) {
	s := search.NewSearcher([]catalog.Item{
		{ID: "CID_028_Athena_Commando_F", Name: "Renegade Raider", Type: catalog.ItemType{BackendValue: "AthenaCharacter"}},
		{ID: "BID_028_SpaceBlack", Name: "Black Shield", Type: catalog.ItemType{BackendValue: "AthenaBackpack"}},
	}, nil, []catalog.Playlist{{ID: "Playlist_DefaultSolo", Name: "Solo"}}, nil, search.NewFolder(true, nil))

	var out bytes.Buffer
	require.NoError(t, runSearch(&out, s, "name", "", false, "raider"))
	assert.Equal(t, "CID_028_Athena_Commando_F\tRenegade Raider\tAthenaCharacter\n", out.String())

	out.Reset()
	require.NoError(t, runSearch(&out, s, "name_id", "", false, "spaceblack"))
	assert.Contains(t, out.String(), "BID_028_SpaceBlack")

	out.Reset()
	require.NoError(t, runSearch(&out, s, "id", "", true, "solo"))
	assert.Equal(t, "Playlist_DefaultSolo\tSolo\n", out.String())

	out.Reset()
	require.NoError(t, runSearch(&out, s, "name", "AthenaBackpack", false, "raider"))
	assert.Contains(t, out.String(), "nothing found")

	assert.Error(t, runSearch(&out, s, "colour", "", false, "x"))
}

func TestRootCommands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"run", "check", "search", "update"}, names)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("public"))
}
