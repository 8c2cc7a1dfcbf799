package rng

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedNormalization(t *testing.T) {
	tests := []struct {
		name string
		seed int64
		want int64
	}{
		{"zero maps to one", 0, 1},
		{"modulus maps to one", MinStd.Modulus, 1},
		{"negative takes absolute value", -1337, 1337},
		{"wraps past modulus", MinStd.Modulus + 5, 5},
		{"plain", 1337, 1337},
		{"min int64", math.MinInt64, -(math.MinInt64 % MinStd.Modulus)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.seed, MinStd)
			assert.Equal(t, tt.want, r.State())
			assert.Equal(t, tt.want, r.InitialSeed())
		})
	}
}

func TestNextRecurrence(t *testing.T) {
	r := New(1, MinStd)
	assert.Equal(t, int64(48271), r.Next())
	assert.Equal(t, int64(48271*48271%2147483647), r.Next())
	assert.Equal(t, int64(1), r.InitialSeed())
}

func TestNextWideParams(t *testing.T) {
	p := Params{Multiplier: 25214903917, Increment: 11, Modulus: 1 << 48}
	r := New(12345, p)

	assert.Equal(t, int64(29803012144720), r.Next())
	assert.Equal(t, int64(224690132215835), r.Next())
	assert.Equal(t, int64(4520194479498), r.Next())

	for i := 0; i < 1000; i++ {
		f := r.Float()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
}

func TestSameSeedSameStream(t *testing.T) {
	a := New(12345, MinStd)
	b := New(12345, MinStd)
	for i := 0; i < 1000; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestStateResumesStream(t *testing.T) {
	a := New(1337, MinStd)
	for i := 0; i < 17; i++ {
		a.Next()
	}
	b := New(a.State(), MinStd)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float(), b.Float())
	}
}

func TestRangeBounds(t *testing.T) {
	r := New(99, MinStd)
	for i := 0; i < 10000; i++ {
		f := r.Float()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)

		v := r.Range(-3, 7)
		assert.GreaterOrEqual(t, v, -3.0)
		assert.Less(t, v, 7.0)
	}
}
