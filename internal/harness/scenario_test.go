package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
algorithm: bubble_sort
input: {array: [3, 1, 2]}
speed_ms: 300
flow:
  - command: set_speed
    speed_ms: 50
  - command: key
    key: shift+right
    expect: {index: 11, playing: false}
  - command: tick
    times: 2
assertions:
  - type: step_values
    at: last
    values: [1, 2, 3]
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "bubble_sort", scenario.Algorithm)
	assert.Equal(t, 300, scenario.SpeedMS)
	require.Len(t, scenario.Flow, 3)
	assert.Equal(t, 50, scenario.Flow[0].SpeedMS)
	assert.Equal(t, "shift+right", scenario.Flow[1].Key)
	require.NotNil(t, scenario.Flow[1].Expect)
	assert.Equal(t, 11, *scenario.Flow[1].Expect.Index)
	assert.False(t, *scenario.Flow[1].Expect.Playing)
	assert.Nil(t, scenario.Flow[1].Expect.Total, "unset fields stay nil")
	assert.Equal(t, 2, scenario.Flow[2].Times)
	assert.Equal(t, []int{1, 2, 3}, scenario.Assertions[0].Values)

	input, err := scenario.inputJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"array":[3,1,2]}`, string(input))
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "Unknown field"
synthetic_steps: 2
flow:
  - command: next
    expct: {index: 1}
assertions:
  - type: tickers_created
    count: 0
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Invalid(t *testing.T) {
	const flow = "flow:\n  - command: next\n"
	const asserts = "assertions:\n  - type: tickers_created\n"
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing name", "description: d\nsynthetic_steps: 1\n" + flow + asserts, "name is required"},
		{"missing description", "name: n\nsynthetic_steps: 1\n" + flow + asserts, "description is required"},
		{"no source", "name: n\ndescription: d\n" + flow + asserts, "one of algorithm or synthetic_steps"},
		{"both sources", "name: n\ndescription: d\nalgorithm: bubble_sort\nsynthetic_steps: 2\n" + flow + asserts, "mutually exclusive"},
		{"input without algorithm", "name: n\ndescription: d\nsynthetic_steps: 2\ninput: {n: 1}\n" + flow + asserts, "input requires algorithm"},
		{"speed out of range", "name: n\ndescription: d\nsynthetic_steps: 2\nspeed_ms: 50\n" + flow + asserts, "speed_ms 50 is outside [100, 2000]"},
		{"empty flow", "name: n\ndescription: d\nsynthetic_steps: 2\nflow: []\n" + asserts, "flow list is required"},
		{"empty assertions", "name: n\ndescription: d\nsynthetic_steps: 2\n" + flow + "assertions: []\n", "assertions list is required"},
		{"unknown command", "name: n\ndescription: d\nsynthetic_steps: 2\nflow:\n  - command: rewind\n" + asserts, `flow[0]: unknown command "rewind"`},
		{"set_speed without speed", "name: n\ndescription: d\nsynthetic_steps: 2\nflow:\n  - command: set_speed\n" + asserts, "speed_ms is required for set_speed"},
		{"key without key", "name: n\ndescription: d\nsynthetic_steps: 2\nflow:\n  - command: key\n" + asserts, "key is required for key"},
		{"negative times", "name: n\ndescription: d\nsynthetic_steps: 2\nflow:\n  - command: next\n    times: -1\n" + asserts, "times must be non-negative"},
		{"assertion without type", "name: n\ndescription: d\nsynthetic_steps: 2\n" + flow + "assertions:\n  - count: 1\n", "type is required"},
		{"unknown assertion", "name: n\ndescription: d\nsynthetic_steps: 2\n" + flow + "assertions:\n  - type: trace_contains\n", `unknown assertion type "trace_contains"`},
		{"final_view without view", "name: n\ndescription: d\nsynthetic_steps: 2\n" + flow + "assertions:\n  - type: final_view\n", "view is required"},
		{"step_values without at", "name: n\ndescription: d\nsynthetic_steps: 2\n" + flow + "assertions:\n  - type: step_values\n    values: [1]\n", "at is required"},
		{"highlight without color", "name: n\ndescription: d\nsynthetic_steps: 2\n" + flow + "assertions:\n  - type: highlight\n", "color is required"},
		{"operation_count without operation", "name: n\ndescription: d\nsynthetic_steps: 2\n" + flow + "assertions:\n  - type: operation_count\n    count: 1\n", "operation is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadScenario_Testdata(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err, path)
		assert.Equal(t, filepath.Base(path), scenario.Name+".yaml", "file is named after the scenario")
	}
}
