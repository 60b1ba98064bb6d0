package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTables(t *testing.T) {
	tables, err := LoadTables(NewPredicates())
	require.NoError(t, err)
	require.Contains(t, tables, "config")
	require.Contains(t, tables, "client")
	require.Contains(t, tables, "ng_words")

	reg := DefaultRegistry()
	for _, tb := range tables.Values() {
		for _, set := range tb.OptionSets() {
			assert.True(t, reg.Has(set), "%s references unknown set %s", tb.Name, set)
		}
		for _, r := range tb.Rules {
			if r.Tags.Records != "" {
				assert.Contains(t, tables, r.Tags.Records)
			}
		}
	}

	clients := tables["config"].Rules[0]
	assert.Equal(t, "['clients']", clients.Path.String())
	assert.Equal(t, "client", clients.Tags.Records)
	assert.True(t, clients.HasDefault)
	assert.NotNil(t, clients.Tags.Check)
}

func TestParseTags(t *testing.T) {
	tags, err := ParseTags([]string{"list", "list", "str", "can_be_none", "multiple_select_platform"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []Kind{List, List, String}, tags.Types)
	assert.True(t, tags.CanBeNone)
	assert.Equal(t, []string{"platform"}, tags.MultiSelect)

	elem, ok := tags.Elem()
	require.True(t, ok)
	assert.Equal(t, []Kind{List, String}, elem.Types)
	assert.True(t, elem.CanBeNone)

	for _, bad := range [][]string{
		{"can_be_none"},
		{"str", "can_be_none", "int"},
		{"str", "whatever"},
		{"str", "records:x"},
		{"str", "check:non_empty"},
	} {
		_, err := ParseTags(bad, nil)
		assert.Error(t, err, "%v", bad)
	}
}

func TestCommandsTable(t *testing.T) {
	tb := CommandsTable([]string{"help", "outfit"})
	require.Len(t, tb.Rules, len(CommandWords)+3)
	last := tb.Rules[len(tb.Rules)-1]
	assert.Equal(t, "['commands']['outfit']", last.Path.String())
	assert.True(t, last.Tags.CanBeMultiple)

	doc := parseDoc(t, `{"whitelist_commands": "help", "user_commands": "", "true": ["yes"], "false": ["no"],
		"accept": ["ok"], "decline": ["ng"], "me": ["me"], "public": ["public"],
		"friends_allow_friends_of_friends": ["fof"], "friends": ["friends"],
		"private_allow_friends_of_friends": ["pof"], "private": ["private"],
		"commands": {"help": "help,h", "outfit": ["outfit", "skin"]}}`)
	r := newValidator().Validate(doc, tb)

	require.True(t, r.OK(), r.Errors())
	assert.Equal(t, []any{"help"}, doc["whitelist_commands"])
	assert.Equal(t, []any{}, doc["user_commands"])
	assert.Equal(t, []any{"help", "h"}, doc["commands"].(map[string]any)["help"])
}
