package render

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jonhuth/dsa/internal/step"
)

// Metadata renders key=value pairs sorted by key. Source location keys are
// left out.
func Metadata(m step.Metadata) string {
	keys := slices.Sorted(maps.Keys(m))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == step.MetaSourceFile || k == step.MetaSourceLine {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(parts, " ")
}

// Step renders a whole step: a heading, the state and the metadata.
func Step(s step.Step, total int, p Painter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Step %d/%d  %s\n%s\n\n", s.Number, total, s.Operation, s.Description)
	b.WriteString(State(s.State, s.Highlights, p))
	if meta := Metadata(s.Metadata); meta != "" {
		b.WriteString("\n\n" + meta)
	}
	return b.String()
}
