package telemetry

import "log/slog"

// Wave outcomes.
const (
	WaveCleared  = "cleared"
	WaveGameOver = "game_over"
	WaveAborted  = "aborted" // the run stopped mid-wave
)

// WaveRecord summarizes one wave from spawn to its end.
type WaveRecord struct {
	Wave        int     `csv:"wave"`
	StartTick   int     `csv:"start_tick"`
	EndTick     int     `csv:"end_tick"`
	DurationSec float64 `csv:"duration_sec"`
	Spawned     int     `csv:"spawned"`
	ShotsFired  int     `csv:"shots_fired"`
	Destroyed   int     `csv:"destroyed"`
	Score       int     `csv:"score"`
	Outcome     string  `csv:"outcome"`
}

// WaveTracker follows the current wave.
type WaveTracker struct {
	dt      float64
	active  bool
	current WaveRecord
}

// NewWaveTracker creates a tracker for a session ticking at dt.
func NewWaveTracker(dt float64) *WaveTracker {
	return &WaveTracker{dt: dt}
}

// Begin starts tracking wave at tick.
func (t *WaveTracker) Begin(wave, spawned, tick int) {
	t.active = true
	t.current = WaveRecord{Wave: wave, StartTick: tick, Spawned: spawned}
}

// RecordShot counts a shot against the current wave.
func (t *WaveTracker) RecordShot() {
	if t.active {
		t.current.ShotsFired++
	}
}

// RecordDestroyed counts destroyed hazards against the current wave.
func (t *WaveTracker) RecordDestroyed(n int) {
	if t.active {
		t.current.Destroyed += n
	}
}

// End closes the current wave. It returns false when no wave was active.
func (t *WaveTracker) End(outcome string, tick, score int) (WaveRecord, bool) {
	if !t.active {
		return WaveRecord{}, false
	}
	t.active = false
	rec := t.current
	rec.EndTick = tick
	rec.DurationSec = float64(tick-rec.StartTick) * t.dt
	rec.Score = score
	rec.Outcome = outcome
	return rec, true
}

// Active reports whether a wave is being tracked.
func (t *WaveTracker) Active() bool {
	return t.active
}

// LogValue implements slog.LogValuer for structured logging.
func (r WaveRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("wave", r.Wave),
		slog.String("outcome", r.Outcome),
		slog.Float64("duration_sec", r.DurationSec),
		slog.Int("destroyed", r.Destroyed),
		slog.Int("shots", r.ShotsFired),
		slog.Int("score", r.Score),
	)
}
