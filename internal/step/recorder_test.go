package step

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_NumbersStepsFromOne(t *testing.T) {
	r := NewRecorder()
	r.Emit("init", "start", ArrayState{Values: []int{3, 1}}, nil)
	r.Emit("compare", "3 vs 1", ArrayState{Values: []int{3, 1}}, nil, Indices(ColorComparing, 0, 1))
	r.Emit("complete", "done", ArrayState{Values: []int{1, 3}}, nil)

	steps, err := r.Finish()
	require.NoError(t, err)
	require.Len(t, steps, 3)
	for i, s := range steps {
		assert.Equal(t, i+1, s.Number)
	}
	require.NoError(t, Validate(steps))
}

func TestClock_NextAndCurrent(t *testing.T) {
	c := NewClock()
	assert.Equal(t, 0, c.Current())
	assert.Equal(t, 1, c.Next())
	assert.Equal(t, 2, c.Next())
	assert.Equal(t, 2, c.Current())
}

func TestRecorder_SnapshotsAreIndependent(t *testing.T) {
	r := NewRecorder()
	working := []int{5, 4, 3}

	r.Emit("init", "start", ArrayState{Values: working}, nil)
	working[0], working[2] = working[2], working[0]
	r.Emit("swap", "swapped", ArrayState{Values: working}, nil, Indices(ColorSwapped, 0, 2))

	steps, err := r.Finish()
	require.NoError(t, err)

	// Mutating the working slice after emission must not leak into any step.
	working[1] = 99
	assert.Equal(t, []int{5, 4, 3}, steps[0].State.(ArrayState).Values)
	assert.Equal(t, []int{3, 4, 5}, steps[1].State.(ArrayState).Values)
}

func TestRecorder_CapturesSourceLine(t *testing.T) {
	r := NewRecorder()
	r.Emit("init", "start", ArrayState{Values: []int{1}}, Metadata{"n": 1})

	steps, err := r.Finish()
	require.NoError(t, err)

	line, ok := steps[0].Metadata.SourceLine()
	require.True(t, ok)
	assert.Greater(t, line, 0)
	assert.Equal(t, "recorder_test.go", steps[0].Metadata[MetaSourceFile])
	assert.Equal(t, 1, steps[0].Metadata["n"])
}

func TestRecorder_DoesNotMutateCallerMetadata(t *testing.T) {
	r := NewRecorder()
	meta := Metadata{"comparisons": 0}
	r.Emit("init", "start", ArrayState{Values: []int{1}}, meta)

	_, hasLine := meta[MetaSourceLine]
	assert.False(t, hasLine)
}

func TestRecorder_QuotaFailsWholeRecording(t *testing.T) {
	r := NewRecorder(WithMaxSteps(2))
	for i := 0; i < 5; i++ {
		r.Emit("tick", "tick", ArrayState{Values: []int{i}}, nil)
	}
	assert.Equal(t, 2, r.Len(), "recording stops at the failing emission")
	assert.True(t, IsStepsExceededError(r.Err()))

	steps, err := r.Finish()
	require.Error(t, err)
	assert.Nil(t, steps, "no partial sequence on failure")
	assert.True(t, IsStepsExceededError(err))
}

func TestRecorder_InvalidHighlightFails(t *testing.T) {
	r := NewRecorder()
	r.Emit("compare", "bad", ArrayState{Values: []int{1, 2}}, nil, Indices(ColorComparing, 2))

	_, err := r.Finish()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestRecorder_NilStateFails(t *testing.T) {
	r := NewRecorder()
	r.Emit("init", "no state", nil, nil)

	_, err := r.Finish()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestRecorder_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRecorder(WithContext(ctx))
	r.Emit("init", "start", ArrayState{Values: []int{1}}, nil)
	cancel()
	r.Emit("next", "after cancel", ArrayState{Values: []int{1}}, nil)

	_, err := r.Finish()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecorder_EmptyRecordingIsAnError(t *testing.T) {
	_, err := NewRecorder().Finish()
	assert.ErrorIs(t, err, ErrNoSteps)
}

func TestRecorder_DropsEmptyHighlights(t *testing.T) {
	r := NewRecorder()
	r.Emit("init", "start", ArrayState{Values: []int{1}}, nil, Indices(ColorActive), Indices(ColorSorted, 0))

	steps, err := r.Finish()
	require.NoError(t, err)
	require.Len(t, steps[0].Highlights, 1)
	assert.Equal(t, ColorSorted, steps[0].Highlights[0].Color)
}
