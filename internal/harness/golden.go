package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/jonhuth/dsa/internal/step"
)

// TraceSnapshot is the golden form of a scenario execution.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Steps        int          `json:"steps"`
	Trace        []TraceEvent `json:"trace"`
}

// Snapshot returns the canonical JSON snapshot of a result.
func Snapshot(name string, r *Result) ([]byte, error) {
	return step.MarshalCanonical(TraceSnapshot{
		ScenarioName: name,
		Steps:        len(r.Steps),
		Trace:        r.Trace,
	})
}

// RunWithGolden executes a scenario and compares the trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result's trace against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}
