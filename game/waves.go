package game

import (
	"github.com/mctar/pasteroids/config"
	"github.com/mctar/pasteroids/telemetry"
)

// WaveSize is the number of hazards spawned for wave, capped at the world's
// hazard ceiling.
func WaveSize(cfg *config.Config, wave int) int {
	idx := max(0, wave-1)
	return min(cfg.Wave.BaseNoodles+idx*cfg.Wave.Increment, cfg.World.MaxNoodles)
}

// SafeRadius is the minimum spawn distance from the ship.
func (s *Session) SafeRadius() float64 {
	r := s.cfg.Wave.SafeRadius
	if sc := s.world.ShipControl(s.world.PlayerShipID()); sc != nil {
		r += sc.Radius
	}
	return r
}

func (s *Session) beginWaveIfNeeded() {
	if s.world.NoodleCount() > 0 {
		return
	}
	s.spawnWave(WaveSize(s.cfg, s.world.Wave))
}

func (s *Session) advanceWave() {
	s.endWave(telemetry.WaveCleared)
	s.collector.RecordWaveCleared()
	s.world.Wave++
	s.spawnWave(WaveSize(s.cfg, s.world.Wave))
}

func (s *Session) spawnWave(count int) {
	spawned := s.world.SpawnWave(count, s.SafeRadius())
	s.waves.Begin(s.world.Wave, spawned, s.tick)
	s.log.Debug("wave spawned", "wave", s.world.Wave, "requested", count, "spawned", spawned)
}

func (s *Session) endWave(outcome string) {
	rec, ok := s.waves.End(outcome, s.tick, s.world.Score)
	if !ok {
		return
	}
	s.log.Info("wave ended", "wave", rec)
	if err := s.output.WriteWave(rec); err != nil {
		s.log.Error("failed to write wave", "error", err)
	}
}
