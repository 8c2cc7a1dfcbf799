package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestAccumulator() *Accumulator {
	return &Accumulator{Step: 1.0 / 60.0, MaxFrame: 0.1, MaxSubSteps: 5}
}

func TestAccumulatorSingleStep(t *testing.T) {
	a := newTestAccumulator()
	assert.Equal(t, 1, a.Advance(1.0/60.0))
	assert.InDelta(t, 0, a.Backlog(), 1e-12)
}

func TestAccumulatorCarriesRemainder(t *testing.T) {
	a := newTestAccumulator()
	assert.Equal(t, 0, a.Advance(1.0/120.0))
	assert.InDelta(t, 0.5, a.Alpha(), 1e-9)
	assert.Equal(t, 1, a.Advance(1.0/120.0))
}

func TestAccumulatorCapsFrameAndSubSteps(t *testing.T) {
	a := newTestAccumulator()
	steps := a.Advance(0.5)
	assert.Equal(t, 5, steps)
	assert.Less(t, a.Backlog(), a.Step, "whole steps beyond the cap are dropped")
	assert.GreaterOrEqual(t, a.Backlog(), 0.0)
}

func TestAccumulatorIgnoresBadFrames(t *testing.T) {
	a := newTestAccumulator()
	assert.Equal(t, 0, a.Advance(0))
	assert.Equal(t, 0, a.Advance(-1))
	assert.Equal(t, 0, a.Advance(math.NaN()))
	assert.Zero(t, a.Backlog())

	a.Advance(1.0 / 120.0)
	a.Reset()
	assert.Zero(t, a.Backlog())
}
