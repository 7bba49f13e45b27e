package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonhuth/dsa/internal/catalog"
)

func TestList_Text(t *testing.T) {
	out, err := execute(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "bubble_sort")
	assert.Contains(t, out, "Bubble Sort")
	assert.Contains(t, out, "dijkstra")
}

func TestList_JSONFilters(t *testing.T) {
	out, err := execute(t, "", "list", "--category", "sorting", "--format", "json")
	require.NoError(t, err)
	var algos []catalog.Algorithm
	resp := decodeResponse(t, out, &algos)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, algos, 6)
	for _, a := range algos {
		assert.Equal(t, "sorting", a.Category)
	}

	out, err = execute(t, "", "list", "--tag", "shortest-path", "--format", "json")
	require.NoError(t, err)
	decodeResponse(t, out, &algos)
	require.Len(t, algos, 1)
	assert.Equal(t, "dijkstra", algos[0].ID)

	out, err = execute(t, "", "list", "--category", "trees", "--difficulty", "easy", "--format", "json")
	require.NoError(t, err)
	decodeResponse(t, out, &algos)
	assert.Len(t, algos, 4)
}

func TestList_NoMatch(t *testing.T) {
	out, err := execute(t, "", "list", "--difficulty", "hard")
	require.NoError(t, err)
	assert.Contains(t, out, "No algorithms match.")
}

func TestList_UnknownCategory(t *testing.T) {
	_, err := execute(t, "", "list", "--category", "quantum")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
