package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonhuth/dsa/internal/algo"
	"github.com/jonhuth/dsa/internal/store"
)

// archiveRuns records one run per input through the run command.
func archiveRuns(t *testing.T, db string, runs map[string]string) {
	t.Helper()
	for id, input := range runs {
		_, err := execute(t, "", "run", id, "--input", input, "--db", db, "--summary")
		require.NoError(t, err)
	}
}

// forgeRun archives steps of one input under a different input.
func forgeRun(t *testing.T, db string) {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	steps, err := algo.NewRegistry().Run(ctx, "bubble_sort", json.RawMessage(`{"array":[2,1]}`))
	require.NoError(t, err)
	run, err := store.NewRun("forged", "bubble_sort", json.RawMessage(bubbleInput), steps)
	require.NoError(t, err)
	_, err = st.WriteRun(ctx, run, steps)
	require.NoError(t, err)
}

func TestReplay_Deterministic(t *testing.T) {
	db := filepath.Join(t.TempDir(), "dsa.db")
	archiveRuns(t, db, map[string]string{
		"bubble_sort":     bubbleInput,
		"dijkstra":        `{"graph":{"0":[[1,4],[2,1]],"2":[[1,2]]},"start":0}`,
		"tree_levelorder": `{"values":[1,2,null,3]}`,
	})

	out, err := execute(t, "", "replay", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Replay Summary: 3 run(s)")
	assert.Contains(t, out, "(dijkstra)")
	assert.Contains(t, out, "✓ All runs verified deterministic")
	assert.NotContains(t, out, "✗")
}

func TestReplay_DetectsMismatch(t *testing.T) {
	db := filepath.Join(t.TempDir(), "dsa.db")
	archiveRuns(t, db, map[string]string{"linear_search": `{"array":[4,2],"target":2}`})
	forgeRun(t, db)

	out, err := execute(t, "", "replay", "--db", db, "-v")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Run: forged (bubble_sort)")
	assert.Contains(t, out, "Non-deterministic replay detected")
	assert.Contains(t, out, "Diff (-archived +replayed)")
	assert.Contains(t, out, "✗ Determinism verification failed")

	out, err = execute(t, "", "replay", "--db", db, "--run", "forged", "--format", "json")
	require.Error(t, err)
	var result ReplayResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_DETERMINISM", resp.Error.Code)
	require.Len(t, result.Runs, 1)
	r := result.Runs[0]
	assert.False(t, r.Deterministic)
	assert.NotEqual(t, r.StoredHash, r.ReplayHash)
	assert.NotEmpty(t, r.Diff)
}

func TestReplay_Filters(t *testing.T) {
	db := filepath.Join(t.TempDir(), "dsa.db")
	archiveRuns(t, db, map[string]string{"linear_search": `{"array":[4,2],"target":2}`})
	forgeRun(t, db)

	out, err := execute(t, "", "replay", "--db", db, "--algorithm", "linear_search", "--format", "json")
	require.NoError(t, err)
	var result ReplayResult
	decodeResponse(t, out, &result)
	assert.Equal(t, 1, result.TotalRuns)
	assert.True(t, result.AllDeterministic)
}

func TestReplay_EmptyAndMissing(t *testing.T) {
	db := filepath.Join(t.TempDir(), "dsa.db")

	out, err := execute(t, "", "replay", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found in database.")

	_, err = execute(t, "", "replay", "--db", db, "--run", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
