package step

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{"b": 1, "a": 2, "c": []int{3, 1}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":1,"c":[3,1]}`, string(got))
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{"s": "<a&b>"})
	require.NoError(t, err)
	assert.Equal(t, `{"s":"<a&b>"}`, string(got))
}

func TestMarshalCanonical_LineSeparatorsLiteral(t *testing.T) {
	got, err := MarshalCanonical("x\u2028y")
	require.NoError(t, err)
	assert.Equal(t, "\"x\u2028y\"", string(got))
}

func TestMarshalCanonical_EscapedBackslashKept(t *testing.T) {
	got, err := MarshalCanonical(`\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(got))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	got, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonical_RejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"f": 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
}

func TestMarshalCanonical_KeepsNull(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{"values": []any{1, nil, 2}})
	require.NoError(t, err)
	assert.Equal(t, `{"values":[1,null,2]}`, string(got))
}

func TestCompareKeysRFC8785_UTF16Order(t *testing.T) {
	// U+1F600 encodes as the surrogate pair D83D DE00, which sorts before
	// U+FF61 in UTF-16 even though its UTF-8 bytes sort after.
	assert.Less(t, compareKeysRFC8785("\U0001F600", "\uff61"), 0)
	assert.Less(t, compareKeysRFC8785("a", "b"), 0)
	assert.Less(t, compareKeysRFC8785("a", "ab"), 0)
	assert.Equal(t, 0, compareKeysRFC8785("k", "k"))
}

func TestRunKey_IgnoresKeyOrderAndWhitespace(t *testing.T) {
	a, err := RunKey("knapsack", json.RawMessage(`{"capacity": 5, "items": [[1,2]]}`))
	require.NoError(t, err)
	b, err := RunKey("knapsack", json.RawMessage(`{"items":[[1,2]],"capacity":5}`))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := RunKey("lcs", json.RawMessage(`{"items":[[1,2]],"capacity":5}`))
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "algorithm id is part of the key")
}

func TestSequenceHash_Deterministic(t *testing.T) {
	build := func() []Step {
		r := NewRecorder()
		r.Emit("init", "start", ArrayState{Values: []int{2, 1}}, Metadata{"swaps": 0})
		r.Emit("complete", "done", ArrayState{Values: []int{1, 2}}, Metadata{"swaps": 1}, Range(ColorSorted, 0, 2))
		steps, err := r.Finish()
		require.NoError(t, err)
		return steps
	}

	h1, err := SequenceHash(build())
	require.NoError(t, err)
	h2, err := SequenceHash(build())
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}
