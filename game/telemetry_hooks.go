package game

import (
	"github.com/mctar/pasteroids/components"
	"github.com/mctar/pasteroids/telemetry"
	"github.com/mctar/pasteroids/world"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Session) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.sample())

	var perfStats telemetry.PerfStats
	if s.perf != nil {
		perfStats = s.perf.Stats()
	}

	if s.opts.StatsCallback != nil {
		s.opts.StatsCallback(stats)
	}

	if s.opts.LogStats {
		stats.LogStats()
		if s.perf != nil {
			perfStats.LogStats()
		}
	}

	if err := s.output.WriteTelemetry(stats); err != nil {
		s.log.Error("failed to write telemetry", "error", err)
	}
	if s.perf != nil {
		if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			s.log.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.opts.LogStats {
			bm.LogBookmark()
		}
		if err := s.output.WriteBookmark(bm); err != nil {
			s.log.Error("failed to write bookmark", "error", err)
		}
	}
}

// sample reads the world-state half of a stats window.
func (s *Session) sample() telemetry.Sample {
	w := s.world
	speeds := make([]float64, 0, w.NoodleCount())
	w.EachBody(func(id world.EntityID, _ *components.Transform, rb *components.RigidBody) {
		if w.Noodle(id) != nil {
			speeds = append(speeds, rb.Velocity.Len())
		}
	})
	return telemetry.Sample{
		Wave:         w.Wave,
		Score:        w.Score,
		Noodles:      w.NoodleCount(),
		Projectiles:  w.ProjectileCount(),
		Explosions:   w.ExplosionCount(),
		NoodleSpeeds: speeds,
	}
}
