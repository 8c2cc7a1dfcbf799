package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveTracker(t *testing.T) {
	wt := NewWaveTracker(0.5)

	// Nothing is counted before a wave begins.
	wt.RecordShot()
	_, ok := wt.End(WaveCleared, 10, 0)
	assert.False(t, ok)

	wt.Begin(3, 5, 100)
	require.True(t, wt.Active())
	wt.RecordShot()
	wt.RecordShot()
	wt.RecordDestroyed(4)

	rec, ok := wt.End(WaveCleared, 140, 900)
	require.True(t, ok)
	assert.False(t, wt.Active())
	assert.Equal(t, WaveRecord{
		Wave:        3,
		StartTick:   100,
		EndTick:     140,
		DurationSec: 20,
		Spawned:     5,
		ShotsFired:  2,
		Destroyed:   4,
		Score:       900,
		Outcome:     WaveCleared,
	}, rec)

	_, ok = wt.End(WaveGameOver, 150, 900)
	assert.False(t, ok, "a wave ends once")
}
