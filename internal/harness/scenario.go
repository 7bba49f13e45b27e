package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/jonhuth/dsa/internal/playback"
)

// Scenario defines a playback scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Algorithm and Input produce the step sequence. Mutually exclusive
	// with SyntheticSteps.
	Algorithm string         `yaml:"algorithm,omitempty"`
	Input     map[string]any `yaml:"input,omitempty"`

	// SyntheticSteps loads that many placeholder steps instead of running
	// an algorithm.
	SyntheticSteps int `yaml:"synthetic_steps,omitempty"`

	// SpeedMS is the engine's initial speed; 0 keeps the default.
	SpeedMS int `yaml:"speed_ms,omitempty"`

	// Flow is the command sequence, applied after the initial load.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the sequence and the final view.
	Assertions []Assertion `yaml:"assertions"`
}

// FlowStep is one command, optionally repeated.
type FlowStep struct {
	Command string `yaml:"command"`
	// Times repeats the command; 0 means once.
	Times int `yaml:"times,omitempty"`
	// SpeedMS is the argument of set_speed.
	SpeedMS int `yaml:"speed_ms,omitempty"`
	// Key is the argument of key, in terminal key notation.
	Key string `yaml:"key,omitempty"`
	// Expect is checked against the view after the last repetition.
	Expect *ViewExpect `yaml:"expect,omitempty"`
}

// ViewExpect is a partial view. Unset fields are not checked.
type ViewExpect struct {
	Index    *int  `yaml:"index,omitempty"`
	Total    *int  `yaml:"total,omitempty"`
	Playing  *bool `yaml:"playing,omitempty"`
	SpeedMS  *int  `yaml:"speed_ms,omitempty"`
	Ticker   *bool `yaml:"ticker,omitempty"`
	PeriodMS *int  `yaml:"period_ms,omitempty"`
}

// Assertion validates the run after the flow.
type Assertion struct {
	Type string `yaml:"type"`

	// View is the expected final view (final_view).
	View *ViewExpect `yaml:"view,omitempty"`

	// At selects a step for step_values: "first", "last" or a 0-based
	// index.
	At     string `yaml:"at,omitempty"`
	Values []int  `yaml:"values,omitempty"`

	// Color is the highlight color (highlight).
	Color string `yaml:"color,omitempty"`

	// Operation and Count are used by operation_count; Count alone by
	// tickers_created.
	Operation string `yaml:"operation,omitempty"`
	Count     int    `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalView      = "final_view"
	AssertStepValues     = "step_values"
	AssertHighlight      = "highlight"
	AssertOperationCount = "operation_count"
	AssertTickersCreated = "tickers_created"
)

// Command names.
const (
	CmdLoad       = "load"
	CmdFirst      = "first"
	CmdPrevious   = "previous"
	CmdNext       = "next"
	CmdLast       = "last"
	CmdTogglePlay = "toggle_play"
	CmdSetSpeed   = "set_speed"
	CmdKey        = "key"
	CmdTick       = "tick"
)

var commands = []string{
	CmdLoad, CmdFirst, CmdPrevious, CmdNext, CmdLast,
	CmdTogglePlay, CmdSetSpeed, CmdKey, CmdTick,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// inputJSON returns the algorithm input as JSON.
func (s *Scenario) inputJSON() (json.RawMessage, error) {
	if s.Input == nil {
		return json.RawMessage(`{}`), nil
	}
	return json.Marshal(s.Input)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Algorithm != "" && s.SyntheticSteps != 0:
		return fmt.Errorf("algorithm and synthetic_steps are mutually exclusive")
	case s.Algorithm == "" && s.SyntheticSteps <= 0:
		return fmt.Errorf("one of algorithm or synthetic_steps (> 0) is required")
	case s.Algorithm == "" && s.Input != nil:
		return fmt.Errorf("input requires algorithm")
	}

	if s.SpeedMS != 0 && playback.ClampSpeed(ms(s.SpeedMS)) != ms(s.SpeedMS) {
		return fmt.Errorf("speed_ms %d is outside [%d, %d]", s.SpeedMS,
			playback.MinSpeed.Milliseconds(), playback.MaxSpeed.Milliseconds())
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if !slices.Contains(commands, step.Command) {
			return fmt.Errorf("flow[%d]: unknown command %q", i, step.Command)
		}
		if step.Times < 0 {
			return fmt.Errorf("flow[%d]: times must be non-negative", i)
		}
		if step.Command == CmdSetSpeed && step.SpeedMS == 0 {
			return fmt.Errorf("flow[%d]: speed_ms is required for set_speed", i)
		}
		if step.Command == CmdKey && step.Key == "" {
			return fmt.Errorf("flow[%d]: key is required for key", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertFinalView:
		if a.View == nil {
			return fmt.Errorf("assertions[%d]: view is required for final_view", index)
		}
	case AssertStepValues:
		if a.At == "" {
			return fmt.Errorf("assertions[%d]: at is required for step_values", index)
		}
		if a.Values == nil {
			return fmt.Errorf("assertions[%d]: values is required for step_values", index)
		}
	case AssertHighlight:
		if a.Color == "" {
			return fmt.Errorf("assertions[%d]: color is required for highlight", index)
		}
	case AssertOperationCount:
		if a.Operation == "" {
			return fmt.Errorf("assertions[%d]: operation is required for operation_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertTickersCreated:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
