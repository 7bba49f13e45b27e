package backend

import (
	"context"
	"errors"

	"github.com/jonhuth/dsa/internal/algo"
	"github.com/jonhuth/dsa/internal/step"
)

// ErrUnknownAlgorithm is returned for an algorithm id that is not
// registered.
var ErrUnknownAlgorithm = algo.ErrUnknownAlgorithm

// Status classifies an execution error. It labels metrics and maps to HTTP
// status codes and CLI exit codes.
type Status string

const (
	StatusOK           Status = "ok"
	StatusInvalidInput Status = "invalid_input"
	StatusUnknown      Status = "unknown_algorithm"
	StatusQuota        Status = "steps_exceeded"
	StatusCanceled     Status = "canceled"
	StatusError        Status = "error"
)

// Classify returns the Status for err; nil is StatusOK.
func Classify(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case algo.IsInputError(err):
		return StatusInvalidInput
	case errors.Is(err, ErrUnknownAlgorithm):
		return StatusUnknown
	case step.IsStepsExceededError(err):
		return StatusQuota
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCanceled
	default:
		return StatusError
	}
}
