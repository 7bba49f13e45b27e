package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlay_ArgumentErrors(t *testing.T) {
	tests := map[string][]string{
		"nothing to play":    {"play"},
		"run without db":     {"play", "--run", "abc"},
		"run with algorithm": {"play", "bubble_sort", "--run", "abc", "--db", "x.db"},
		"missing input":      {"play", "bubble_sort"},
		"speed out of range": {"play", "bubble_sort", "--input", bubbleInput, "--speed-ms", "5"},
		"too many arguments": {"play", "bubble_sort", "dijkstra"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, "", args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}
