package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicates(t *testing.T) {
	preds := NewPredicates()
	tests := []struct {
		spec string
		in   any
		want bool
	}{
		{"non_empty", []any{1}, true},
		{"non_empty", []any{}, false},
		{"non_empty", "", false},
		{"in_range(1, 16)", int64(1), true},
		{"in_range(1, 16)", int64(16), true},
		{"in_range(1, 16)", int64(17), false},
		{"in_range(1, 16)", "5", false},
		{"matches(email)", "someone@mail.com", true},
		{"matches(email)", "someone", false},
		{`matches("^cid_")`, "cid_028", true},
		{"avatar_color", "teal", true},
		{"avatar_color", "1,2,3", true},
		{"avatar_color", "1,2", false},
		{"avatar_color", "purple", false},
	}
	for _, tt := range tests {
		c, err := preds.Compile(tt.spec)
		require.NoError(t, err, tt.spec)
		assert.Equal(t, tt.want, c.Eval(tt.in), "%s(%v)", tt.spec, tt.in)
	}
}

func TestPredicates_CompileErrors(t *testing.T) {
	preds := NewPredicates()
	for _, spec := range []string{"unknown", "in_range(1)", "in_range(a, b)", "non_empty(1)", "matches([)", "in_range(1, 2"} {
		_, err := preds.Compile(spec)
		assert.Error(t, err, spec)
	}
}

func TestPredicates_Register(t *testing.T) {
	preds := NewPredicates()
	preds.Register("even", func(args ...string) (Predicate, error) {
		return func(v any) bool { n, ok := v.(int64); return ok && n%2 == 0 }, nil
	})
	c, err := preds.Compile("even")
	require.NoError(t, err)
	assert.True(t, c.Eval(int64(4)))
	assert.False(t, c.Eval(int64(3)))
}
