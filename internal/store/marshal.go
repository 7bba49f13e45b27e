package store

import (
	"encoding/json"
	"fmt"

	"github.com/jonhuth/dsa/internal/step"
)

// marshalStep converts a step to canonical JSON TEXT.
func marshalStep(s step.Step) (string, error) {
	data, err := step.MarshalCanonical(s)
	if err != nil {
		return "", fmt.Errorf("marshal step %d: %w", s.Number, err)
	}
	return string(data), nil
}

func unmarshalStep(payload string) (step.Step, error) {
	var s step.Step
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return step.Step{}, fmt.Errorf("unmarshal step: %w", err)
	}
	return s, nil
}
