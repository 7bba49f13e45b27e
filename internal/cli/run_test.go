package cli

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonhuth/dsa/internal/algo"
	"github.com/jonhuth/dsa/internal/backend"
	"github.com/jonhuth/dsa/internal/catalog"
	"github.com/jonhuth/dsa/internal/server"
)

const bubbleInput = `{"array":[3,1,2]}`

func TestRun_TextSteps(t *testing.T) {
	out, err := execute(t, "", "run", "bubble_sort", "--input", bubbleInput)
	require.NoError(t, err)
	assert.Contains(t, out, "Step 1/12  init")
	assert.Contains(t, out, "Step 12/12  complete")
	assert.Contains(t, out, "swapped: indices 0 1")
	assert.True(t, strings.HasPrefix(lastLine(out), "bubble_sort: 12 steps, hash "), out)
	assert.NotContains(t, out, "(cached)")
}

func TestRun_Summary(t *testing.T) {
	out, err := execute(t, "", "run", "bubble_sort", "-i", bubbleInput, "--summary")
	require.NoError(t, err)
	assert.NotContains(t, out, "Step 1/12")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestRun_JSON(t *testing.T) {
	out, err := execute(t, "", "run", "bubble_sort", "--input", bubbleInput, "--format", "json")
	require.NoError(t, err)

	var data struct {
		AlgorithmID string            `json:"algorithm_id"`
		Count       int               `json:"count"`
		Hash        string            `json:"hash"`
		Steps       []json.RawMessage `json:"steps"`
	}
	resp := decodeResponse(t, out, &data)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "bubble_sort", data.AlgorithmID)
	assert.Equal(t, 12, data.Count)
	assert.Len(t, data.Steps, 12)
	assert.Len(t, data.Hash, 64)
}

func TestRun_InputSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(bubbleInput), 0644))

	fromFile, err := execute(t, "", "run", "bubble_sort", "--input", "@"+path, "--summary")
	require.NoError(t, err)
	fromStdin, err := execute(t, bubbleInput, "run", "bubble_sort", "--input", "-", "--summary")
	require.NoError(t, err)
	inline, err := execute(t, "", "run", "bubble_sort", "--input", bubbleInput, "--summary")
	require.NoError(t, err)

	assert.Equal(t, inline, fromFile)
	assert.Equal(t, inline, fromStdin)

	_, err = execute(t, "", "run", "bubble_sort", "--input", "@"+filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		exitCode int
		code     string
	}{
		{"missing input", []string{"run", "bubble_sort"}, ExitCommandError, ""},
		{"invalid input", []string{"run", "bubble_sort", "--input", `{"array":"x"}`}, ExitCommandError, "invalid_input"},
		{"unknown algorithm", []string{"run", "bogo_sort", "--input", `{}`}, ExitCommandError, "unknown_algorithm"},
		{"step limit", []string{"run", "bubble_sort", "--input", bubbleInput, "--max-steps", "3"}, ExitFailure, "steps_exceeded"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, "", tc.args...)
			require.Error(t, err)
			assert.Equal(t, tc.exitCode, GetExitCode(err))

			if tc.code == "" {
				return
			}
			out, err := execute(t, "", append(tc.args, "--format", "json")...)
			require.Error(t, err)
			resp := decodeResponse(t, out, nil)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func TestRun_ArchiveServesRepeat(t *testing.T) {
	db := filepath.Join(t.TempDir(), "dsa.db")

	first, err := execute(t, "", "run", "bubble_sort", "--input", bubbleInput, "--db", db, "--summary")
	require.NoError(t, err)
	assert.Contains(t, first, ", run ")
	assert.NotContains(t, first, "(cached)")

	second, err := execute(t, "", "run", "bubble_sort", "--input", `{ "array": [3, 1, 2] }`, "--db", db, "--summary")
	require.NoError(t, err)
	assert.Contains(t, second, "(cached)")
	assert.Equal(t, strings.TrimSuffix(first, "\n")+" (cached)\n", second, "same run id and hash")
}

func TestRun_Server(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cat, err := catalog.Load()
	require.NoError(t, err)
	srv := httptest.NewServer(server.New(cat, backend.New(algo.NewRegistry())).Handler())
	defer srv.Close()

	remote, err := execute(t, "", "run", "bubble_sort", "--input", bubbleInput, "--server", srv.URL, "--summary")
	require.NoError(t, err)
	local, err := execute(t, "", "run", "bubble_sort", "--input", bubbleInput, "--summary")
	require.NoError(t, err)
	assert.Equal(t, local, remote)

	_, err = execute(t, "", "run", "bubble_sort", "--input", `{"array":"x"}`, "--server", srv.URL)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "", "run", "bubble_sort", "--input", bubbleInput, "--server", "ftp://example.com")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func lastLine(out string) string {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	return lines[len(lines)-1]
}
