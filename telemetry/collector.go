package telemetry

import "github.com/mctar/pasteroids/systems"

// Sample is the world state read at window end.
type Sample struct {
	Wave         int
	Score        int
	Noodles      int
	Projectiles  int
	Explosions   int
	NoodleSpeeds []float64
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int
	dt                  float64

	windowStartTick int

	shotsFired   int
	hits         int
	detonations  int
	destroyed    int
	splits       int
	scoreGained  int
	wavesCleared int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordShot records one successful trigger pull.
func (c *Collector) RecordShot() {
	c.shotsFired++
}

// RecordCollisions folds one collision pass into the window.
func (c *Collector) RecordCollisions(r systems.CollisionReport) {
	c.hits += r.Hits
	c.detonations += r.Detonations
	c.destroyed += r.Destroyed
	c.splits += r.Splits
	c.scoreGained += r.ScoreGained
}

// RecordWaveCleared records a cleared wave.
func (c *Collector) RecordWaveCleared() {
	c.wavesCleared++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int, s Sample) WindowStats {
	var hitRate, scorePerShot float64
	if c.shotsFired > 0 {
		hitRate = float64(c.hits) / float64(c.shotsFired)
		scorePerShot = float64(c.scoreGained) / float64(c.shotsFired)
	}

	mean, std, p50, p90 := ComputeSpeedStats(s.NoodleSpeeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Wave:        s.Wave,
		Score:       s.Score,
		Noodles:     s.Noodles,
		Projectiles: s.Projectiles,
		Explosions:  s.Explosions,

		ShotsFired:   c.shotsFired,
		Hits:         c.hits,
		Detonations:  c.detonations,
		Destroyed:    c.destroyed,
		Splits:       c.splits,
		ScoreGained:  c.scoreGained,
		WavesCleared: c.wavesCleared,
		HitRate:      hitRate,
		ScorePerShot: scorePerShot,

		NoodleSpeedMean: mean,
		NoodleSpeedStd:  std,
		NoodleSpeedP50:  p50,
		NoodleSpeedP90:  p90,
	}

	c.windowStartTick = currentTick
	c.shotsFired = 0
	c.hits = 0
	c.detonations = 0
	c.destroyed = 0
	c.splits = 0
	c.scoreGained = 0
	c.wavesCleared = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int {
	return c.windowDurationTicks
}
