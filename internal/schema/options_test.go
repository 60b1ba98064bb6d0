package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AllowNoneOnce(t *testing.T) {
	r := DefaultRegistry()
	before, _ := r.Options("privacy")

	require.NoError(t, r.AllowNone("privacy"))
	require.NoError(t, r.AllowNone("privacy"))

	after, _ := r.Options("privacy")
	assert.Len(t, after, len(before)+1)
	assert.Equal(t, NoneOption, after[len(after)-1])

	assert.Error(t, r.AllowNone("nope"))
}

func TestRegistry_Match(t *testing.T) {
	r := DefaultRegistry()

	opt, ok, err := r.Match("privacy", "friends")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "FRIENDS", opt.RealValue)

	opt, ok, err = r.Match("bool", false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, false, opt.RealValue)

	_, ok, err = r.Match("bool", "false")
	require.NoError(t, err)
	assert.False(t, ok, "strings do not match bool options")

	_, ok, _ = r.Match("platform", nil)
	assert.False(t, ok)
	require.NoError(t, r.AllowNone("platform"))
	_, ok, _ = r.Match("platform", nil)
	assert.True(t, ok)

	_, _, err = r.Match("nope", "x")
	assert.Error(t, err)
}

func TestRegistry_SetLangsKeepsNone(t *testing.T) {
	r := DefaultRegistry()
	require.NoError(t, r.AllowNone("lang"))
	r.SetLangs([]string{"en", "ja"})

	opts, ok := r.Options("lang")
	require.True(t, ok)
	assert.Equal(t, []any{"en", "ja", nil}, realValues(opts))
}

func TestRegistry_OptionsIsCopy(t *testing.T) {
	r := DefaultRegistry()
	opts, _ := r.Options("api")
	opts[0].RealValue = "mutated"

	again, _ := r.Options("api")
	assert.Equal(t, "BenBot", again[0].RealValue)
}
