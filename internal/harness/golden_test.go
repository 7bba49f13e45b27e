package harness

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Canonical(t *testing.T) {
	r := NewResult()
	r.Trace = append(r.Trace, TraceEvent{Seq: 1, Command: CmdLoad, Total: 2, SpeedMS: 500, Operation: "step"})
	r.Steps = syntheticSteps(2)

	got, err := Snapshot("snap", r)
	require.NoError(t, err)
	assert.Equal(t,
		`{"scenario_name":"snap","steps":2,"trace":[{"command":"load","index":0,"operation":"step","playing":false,"seq":1,"speed_ms":500,"ticker":false,"total":2}]}`,
		string(got))
}

func TestSnapshot_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/speed_change_next_tick.yaml")
	require.NoError(t, err)

	var snaps []string
	for range 3 {
		result, err := Run(context.Background(), scenario)
		require.NoError(t, err)
		snap, err := Snapshot(scenario.Name, result)
		require.NoError(t, err)
		snaps = append(snaps, string(snap))
	}
	assert.Equal(t, snaps[0], snaps[1])
	assert.Equal(t, snaps[0], snaps[2])

	golden, err := os.ReadFile("testdata/golden/speed_change_next_tick.golden")
	require.NoError(t, err)
	assert.Equal(t, string(golden), snaps[0])
}
