package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource(t *testing.T) {
	out, err := execute(t, "", "source", "bubble_sort")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "package algo\n"))
	assert.Contains(t, out, "func bubbleSort(")

	numbered, err := execute(t, "", "source", "bubble_sort", "-n")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(numbered, "   1  package algo\n"), numbered[:20])
	assert.Equal(t, strings.Count(out, "\n"), strings.Count(numbered, "\n"))
}

func TestSource_JSON(t *testing.T) {
	out, err := execute(t, "", "source", "dijkstra", "--format", "json")
	require.NoError(t, err)
	var data SourceResult
	decodeResponse(t, out, &data)
	assert.Equal(t, "dijkstra", data.AlgorithmID)
	assert.Equal(t, "dijkstra.go", data.File)
	assert.Contains(t, data.Source, "package algo")
}

func TestSource_Unknown(t *testing.T) {
	_, err := execute(t, "", "source", "bogo_sort")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
