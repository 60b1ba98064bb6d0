package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPath(t *testing.T, s string) Path {
	t.Helper()
	p, err := ParsePath(s)
	require.NoError(t, err)
	return p
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want Path
	}{
		{in: "['a']", want: Path{"a"}},
		{in: `["a"]['b']`, want: Path{"a", "b"}},
		{in: "['clients'][0]['fortnite']['email']", want: Path{"clients", 0, "fortnite", "email"}},
		{in: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}

	for _, bad := range []string{"a", "['a'", "[x]", "['a']b"} {
		_, err := ParsePath(bad)
		assert.Error(t, err, bad)
	}
}

func TestPath_StringRoundTrip(t *testing.T) {
	s := "['clients'][3]['ng_words'][0]['word']"
	assert.Equal(t, s, mustPath(t, s).String())
	assert.Equal(t, "['a'][1]", Path{"a"}.Index(1).String())
}

func TestPath_JoinDoesNotAlias(t *testing.T) {
	base := make(Path, 1, 8)
	base[0] = "clients"
	a := base.Index(0)
	b := base.Index(1)
	assert.Equal(t, "['clients'][0]", a.String())
	assert.Equal(t, "['clients'][1]", b.String())
}

func TestPath_GetSet(t *testing.T) {
	doc := parseDoc(t, `{"a": {"b": null, "list": [1, 2]}}`)

	v, ok := mustPath(t, "['a']['b']").Get(doc)
	assert.True(t, ok, "null is a present value")
	assert.Nil(t, v)

	_, ok = mustPath(t, "['a']['c']").Get(doc)
	assert.False(t, ok)

	v, ok = mustPath(t, "['a']['list'][1]").Get(doc)
	require.True(t, ok)
	assert.Equal(t, int64(2), v)

	require.NoError(t, mustPath(t, "['a']['list'][0]").Set(doc, "x"))
	assert.Equal(t, []any{"x", int64(2)}, doc["a"].(map[string]any)["list"])

	require.NoError(t, mustPath(t, "['a']['c']").Set(doc, 5))
	assert.Equal(t, 5, doc["a"].(map[string]any)["c"])

	assert.Error(t, mustPath(t, "['x']['y']").Set(doc, 1), "missing parent")
	assert.Error(t, mustPath(t, "['a']['list'][5]").Set(doc, 1), "index out of range")
	assert.Error(t, Path(nil).Set(doc, 1))
}
