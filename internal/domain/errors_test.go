package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationError_Message(t *testing.T) {
	err := NewConfigurationError("simulation.trials", "must be positive, got %d", -5)
	assert.Contains(t, err.Error(), "simulation.trials")
	assert.Contains(t, err.Error(), "must be positive, got -5")

	blank := NewConfigurationError("", "configuration is nil")
	assert.Contains(t, blank.Error(), "configuration is nil")
}

func TestComputationError_Unwrap(t *testing.T) {
	inner := &SamplingError{Reason: "draw exceeds remaining observations"}
	err := &ComputationError{Op: "trial 3 sample", Err: inner}

	assert.Contains(t, err.Error(), "trial 3 sample")

	var sampleErr *SamplingError
	require.True(t, errors.As(err, &sampleErr))
	assert.Equal(t, inner.Reason, sampleErr.Reason)
}

func TestComputationError_WrappingChain(t *testing.T) {
	inner := &ComputationError{Op: "trial 0 sample", Err: &SamplingError{Reason: "boom"}}
	wrapped := fmt.Errorf("batch: %w", inner)

	var compErr *ComputationError
	assert.True(t, errors.As(wrapped, &compErr))
}
