package game

import (
	"math"

	"github.com/mctar/pasteroids/config"
)

// Accumulator converts variable frame times into a whole number of fixed steps.
type Accumulator struct {
	Step        float64 // seconds per fixed step
	MaxFrame    float64 // frame time cap in seconds, 0 for none
	MaxSubSteps int     // steps per frame cap, 0 for none

	acc float64
}

// NewAccumulator builds an accumulator from the timing config.
func NewAccumulator(cfg *config.Config) *Accumulator {
	return &Accumulator{
		Step:        cfg.Derived.FixedStep,
		MaxFrame:    cfg.Derived.MaxFrameSeconds,
		MaxSubSteps: cfg.Timing.MaxSubSteps,
	}
}

// Advance adds one frame of elapsed time and returns how many fixed steps to
// run. Whole steps left over beyond MaxSubSteps are dropped; only the
// sub-step remainder carries into the next frame.
func (a *Accumulator) Advance(frame float64) int {
	if a.Step <= 0 || !(frame > 0) {
		return 0
	}
	if a.MaxFrame > 0 && frame > a.MaxFrame {
		frame = a.MaxFrame
	}
	a.acc += frame

	steps := 0
	for a.acc >= a.Step {
		if a.MaxSubSteps > 0 && steps >= a.MaxSubSteps {
			a.acc = math.Mod(a.acc, a.Step)
			break
		}
		a.acc -= a.Step
		steps++
	}
	return steps
}

// Alpha is the fraction of a step held in the accumulator, for interpolation.
func (a *Accumulator) Alpha() float64 {
	if a.Step <= 0 {
		return 0
	}
	return a.acc / a.Step
}

// Backlog returns the unconsumed time in seconds.
func (a *Accumulator) Backlog() float64 {
	return a.acc
}

// Reset empties the accumulator.
func (a *Accumulator) Reset() {
	a.acc = 0
}
