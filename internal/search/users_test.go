package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUsers = []User{
	{ID: "aa11", DisplayName: "Gleb"},
	{ID: "bb22", DisplayName: "GLEBushka"},
	{ID: "cc33", DisplayName: "Olga"},
	{ID: "gleb44", DisplayName: "Nobody"},
	{ID: "dd55", DisplayName: ""},
}

func userIDs(users []User) []string {
	var out []string
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func TestFindUsers(t *testing.T) {
	f := NewFolder(true, nil)

	cases := []struct {
		name   string
		query  string
		mode   UserMode
		method MatchMethod
		want   []string
	}{
		{"full folds both sides", "gleb", UserByName, MatchFull, []string{"aa11"}},
		{"starts", "gleb", UserByName, MatchStarts, []string{"aa11", "bb22"}},
		{"ends", "GA", UserByName, MatchEnds, []string{"cc33"}},
		{"contains", "l", UserByName, MatchContains, []string{"aa11", "bb22", "cc33"}},
		{"id full", "cc33", UserByID, MatchFull, []string{"cc33"}},
		{"name and id without repeats", "gleb", UserByNameID, MatchContains, []string{"aa11", "bb22", "gleb44"}},
		{"no match", "zz", UserByNameID, MatchContains, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, userIDs(FindUsers(tc.query, testUsers, tc.mode, tc.method, f)))
		})
	}
}

func TestParseMatchMethod(t *testing.T) {
	m, err := ParseMatchMethod("Starts")
	require.NoError(t, err)
	assert.Equal(t, MatchStarts, m)

	_, err = ParseMatchMethod("regex")
	assert.Error(t, err)
}

func TestNGWord(t *testing.T) {
	f := NewFolder(true, nil)
	single := NGWord{Count: 1, Method: MatchContains, Words: []string{"BadWord"}}
	assert.True(t, single.Match("this is a badword!", f))
	assert.False(t, single.Match("clean", f))

	pair := NGWord{Count: 2, Method: MatchContains, Words: []string{"foo", "bar", ""}}
	assert.False(t, pair.Match("foo only", f))
	assert.True(t, pair.Match("foo and bar", f))

	full := NGWord{Method: MatchFull, Words: []string{"spam"}}
	assert.True(t, full.Match("SPAM", f))
	assert.False(t, full.Match("spam spam", f))

	r, ok := MatchNGWords([]NGWord{pair, full}, "Spam", f)
	require.True(t, ok)
	assert.Equal(t, MatchFull, r.Method)

	_, ok = MatchNGWords([]NGWord{pair}, "hello", f)
	assert.False(t, ok)
}
