package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonhuth/dsa/internal/algo"
)

func mustParse(t *testing.T, content string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(content))
	require.NoError(t, err)
	return s
}

func TestRun_Testdata(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err)
		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_TraceStartsWithLoad(t *testing.T) {
	s := mustParse(t, `
name: t
description: d
synthetic_steps: 3
flow:
  - command: next
assertions:
  - type: tickers_created
    count: 0
`)
	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 2)

	load := result.Trace[0]
	assert.Equal(t, 1, load.Seq)
	assert.Equal(t, CmdLoad, load.Command)
	assert.Equal(t, 0, load.Index)
	assert.Equal(t, 3, load.Total)
	assert.Equal(t, 500, load.SpeedMS)

	assert.Equal(t, 1, result.Trace[1].Index)
	assert.Equal(t, 1, result.Final.Index)
	assert.Len(t, result.Steps, 3)
}

func TestRun_MissedTick(t *testing.T) {
	s := mustParse(t, `
name: t
description: d
synthetic_steps: 3
flow:
  - command: tick
    times: 2
assertions:
  - type: final_view
    view: {index: 0, playing: false}
`)
	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 3)
	assert.True(t, result.Trace[1].Missed)
	assert.True(t, result.Trace[2].Missed)
	assert.Equal(t, 0, result.TickersCreated)
}

func TestRun_FailedExpectations(t *testing.T) {
	s := mustParse(t, `
name: t
description: d
synthetic_steps: 3
flow:
  - command: next
    expect: {index: 2, playing: true}
assertions:
  - type: final_view
    view: {total: 4}
  - type: tickers_created
    count: 1
`)
	result, err := Run(context.Background(), s)
	require.NoError(t, err, "failures are reported in the result")
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Equal(t, "flow[0] next: index: expected 2, got 1", result.Errors[0])
	assert.Equal(t, "flow[0] next: playing: expected true, got false", result.Errors[1])
	assert.Contains(t, result.Errors[2], "assertions[0]: Assertion failed: final_view")
	assert.Contains(t, result.Errors[2], "total: expected 4, got 3")
	assert.Contains(t, result.Errors[3], "assertions[1]: Assertion failed: tickers_created")
}

func TestRun_InvalidAlgorithmInput(t *testing.T) {
	s := mustParse(t, `
name: t
description: d
algorithm: bubble_sort
input: {array: "nope"}
flow:
  - command: next
assertions:
  - type: tickers_created
    count: 0
`)
	_, err := Run(context.Background(), s)
	require.Error(t, err)
	assert.True(t, algo.IsInputError(err))
	assert.Contains(t, err.Error(), "failed to run bubble_sort")
}

func TestRun_UnknownAlgorithm(t *testing.T) {
	s := mustParse(t, `
name: t
description: d
algorithm: bogo_sort
flow:
  - command: next
assertions:
  - type: tickers_created
    count: 0
`)
	_, err := Run(context.Background(), s, WithRegistry(algo.NewRegistry()))
	assert.ErrorIs(t, err, algo.ErrUnknownAlgorithm)
}

func TestRun_InitialSpeed(t *testing.T) {
	s := mustParse(t, `
name: t
description: d
synthetic_steps: 4
speed_ms: 1200
flow:
  - command: toggle_play
    expect: {ticker: true, period_ms: 1200}
  - command: key
    key: down
    expect: {speed_ms: 1300, period_ms: 1200}
  - command: tick
    expect: {index: 1, period_ms: 1300}
assertions:
  - type: final_view
    view: {speed_ms: 1300}
`)
	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}
