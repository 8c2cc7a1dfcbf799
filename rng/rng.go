// Package rng implements the seeded linear congruential generator that every
// simulation draw goes through.
package rng

import (
	"math/bits"
	"time"
)

// Params are the recurrence constants: state = (Multiplier*state + Increment) mod Modulus.
// Multiplier and Increment must be non-negative and Modulus greater than 1.
type Params struct {
	Multiplier int64
	Increment  int64
	Modulus    int64
}

// MinStd is the Park-Miller "minimal standard" parameter set.
var MinStd = Params{Multiplier: 48271, Increment: 0, Modulus: 2147483647}

// Rand is a deterministic generator. It is not safe for concurrent use; each
// world owns exactly one.
type Rand struct {
	params  Params
	state   int64
	initial int64
}

// New creates a generator from an explicit seed. The seed is normalized to
// |seed| mod Modulus, with 0 mapped to 1 so the stream never degenerates.
func New(seed int64, p Params) *Rand {
	s := normalize(seed, p.Modulus)
	return &Rand{params: p, state: s, initial: s}
}

// NewFromClock seeds from the wall clock. Runs built this way are not reproducible.
func NewFromClock(p Params) *Rand {
	return New(time.Now().UnixMilli()%p.Modulus, p)
}

func normalize(seed, modulus int64) int64 {
	v := seed % modulus
	if v < 0 {
		v = -v
	}
	if v == 0 {
		return 1
	}
	return v
}

// Next advances the generator and returns the new state.
func (r *Rand) Next() int64 {
	// 128-bit product so large multipliers cannot wrap.
	hi, lo := bits.Mul64(uint64(r.params.Multiplier), uint64(r.state))
	lo, carry := bits.Add64(lo, uint64(r.params.Increment), 0)
	r.state = int64(bits.Rem64(hi+carry, lo, uint64(r.params.Modulus)))
	return r.state
}

// Float returns the next value scaled into [0, 1).
func (r *Rand) Float() float64 {
	return float64(r.Next()) / float64(r.params.Modulus)
}

// Range returns a value in [min, max).
func (r *Rand) Range(min, max float64) float64 {
	return min + (max-min)*r.Float()
}

// State returns the current state. Seeding a new generator with it continues the
// same stream.
func (r *Rand) State() int64 {
	return r.state
}

// InitialSeed returns the normalized seed the generator started from.
func (r *Rand) InitialSeed() int64 {
	return r.initial
}
